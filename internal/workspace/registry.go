package workspace

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/shared/id"
	"go.uber.org/zap"
)

// Document is one previewable file, held in memory as decoded UTF-8 text.
type Document struct {
	ID       id.DocumentID `json:"id"`
	Path     string        `json:"path"`
	Text     string        `json:"-"`
	Format   string        `json:"format"`
	Charset  string        `json:"charset"`
	OpenedAt time.Time     `json:"opened_at"`
}

// Registry tracks opened documents in insertion order.
type Registry struct {
	mu     sync.RWMutex
	docs   []*Document
	byPath map[string]int
	onOpen []func(*Document)
	log    *logging.Logger
}

// NewRegistry creates an empty document registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		byPath: make(map[string]int),
		log:    log,
	}
}

// OnOpen registers a callback fired after a document is opened or refreshed.
// Callbacks run outside the registry lock.
func (r *Registry) OnOpen(fn func(*Document)) {
	r.mu.Lock()
	r.onOpen = append(r.onOpen, fn)
	r.mu.Unlock()
}

// Open reads a file into the registry. Re-opening a known path refreshes its
// text in place and keeps its position in the resolution order.
func (r *Registry) Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	text, charset := decodeText(data)

	r.mu.Lock()
	var doc *Document
	if i, ok := r.byPath[path]; ok {
		doc = r.docs[i]
		doc.Text = text
		doc.Charset = charset
		doc.Format = DetectFormat(path, data)
	} else {
		doc = &Document{
			ID:       id.NewDocumentID(),
			Path:     path,
			Text:     text,
			Format:   DetectFormat(path, data),
			Charset:  charset,
			OpenedAt: time.Now(),
		}
		r.byPath[path] = len(r.docs)
		r.docs = append(r.docs, doc)
	}
	callbacks := append([]func(*Document){}, r.onOpen...)
	r.mu.Unlock()

	r.log.Debug("document opened",
		zap.String("path", doc.Path),
		zap.String("format", doc.Format),
		zap.String("charset", doc.Charset))

	for _, fn := range callbacks {
		fn(doc)
	}
	return doc, nil
}

// Get returns the document for a path, if opened.
func (r *Registry) Get(path string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byPath[path]
	if !ok {
		return nil, false
	}
	return r.docs[i], true
}

// Visible returns the opened documents in insertion order. This order is the
// resolution order for preview identities.
func (r *Registry) Visible() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Close removes a document from the registry. Returns false if not open.
func (r *Registry) Close(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byPath[path]
	if !ok {
		return false
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	delete(r.byPath, path)
	for j := i; j < len(r.docs); j++ {
		r.byPath[r.docs[j].Path] = j
	}
	return true
}

// Stats returns registry statistics.
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]interface{}{
		"open_documents": len(r.docs),
	}
}

// decodeText converts raw file bytes to UTF-8 text, detecting the source
// charset with chardet. Valid UTF-8 input is passed through untouched.
func decodeText(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(data), "UTF-8"
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil {
		return string(data), "unknown"
	}

	enc, err := ianaindex.IANA.Encoding(result.Charset)
	if err != nil || enc == nil {
		return string(data), result.Charset
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return string(data), result.Charset
	}
	return strings.ToValidUTF8(string(decoded), "�"), result.Charset
}
