package preview

import (
	"strings"

	"github.com/champierre/mappreview/internal/workspace"
)

// Scheme prefixes every preview identity.
const Scheme = "map-preview:"

// Identity is the synthetic key for one previewable view of a document. It
// embeds the source path as an opaque string; two identities for the same
// path compare equal. Duplicate views of one document collide onto the same
// identity by design.
type Identity string

// MakeIdentity derives the identity for a document path. The path is
// embedded raw, with no normalization, so construction is deterministic.
func MakeIdentity(path string) Identity {
	return Identity(Scheme + path)
}

// Path returns the document path embedded in the identity.
func (i Identity) Path() string {
	return strings.TrimPrefix(string(i), Scheme)
}

func (i Identity) String() string {
	return string(i)
}

// DocumentSource enumerates the documents an identity may resolve to.
type DocumentSource interface {
	Visible() []*workspace.Document
}

// Resolve scans the visible documents in their stable enumeration order and
// returns the first whose identity matches, or nil when the source document
// is no longer open.
func Resolve(docs DocumentSource, identity Identity) *workspace.Document {
	for _, doc := range docs.Visible() {
		if MakeIdentity(doc.Path) == identity {
			return doc
		}
	}
	return nil
}
