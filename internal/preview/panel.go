package preview

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/shared/id"
)

// Panel is one sandboxed rendering surface: a generated document plus the
// nonces its CSP was minted with. Panels are never reused; every preview
// command opens a fresh one.
type Panel struct {
	ID          id.PanelID `json:"id"`
	Identity    Identity   `json:"identity"`
	Title       string     `json:"title"`
	HTML        string     `json:"-"`
	ScriptNonce string     `json:"-"`
	StyleNonce  string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Loader materializes panels. The static resource scope and CSP source are
// fixed per loader; the nonces are fresh per panel.
type Loader struct {
	provider     *Provider
	origin       string
	resourcePath string
	panels       sync.Map // id.PanelID -> *Panel
	log          *logging.Logger
}

// NewLoader creates a panel loader. origin is the externally visible origin
// serving the panels, used both as the CSP source and to rewrite resource
// names; resourcePath is the URL path prefix of the static resource
// directory, the only local scope panels may load from.
func NewLoader(provider *Provider, origin, resourcePath string, log *logging.Logger) *Loader {
	return &Loader{
		provider:     provider,
		origin:       origin,
		resourcePath: resourcePath,
		log:          log,
	}
}

// Open creates a brand-new panel for an identity: mints the two per-panel
// nonces, binds a capability context to the panel, pulls the generated
// document from the provider, and registers the panel.
func (l *Loader) Open(identity Identity, title string) *Panel {
	panel := &Panel{
		ID:          id.NewPanelID(),
		Identity:    identity,
		Title:       title,
		ScriptNonce: NewNonce(),
		StyleNonce:  NewNonce(),
		CreatedAt:   time.Now(),
	}

	caps := Capabilities{
		ResourceURI: func(name string) string {
			return l.origin + l.resourcePath + "/" + name
		},
		CSPSource:   l.origin,
		ScriptNonce: panel.ScriptNonce,
		StyleNonce:  panel.StyleNonce,
	}

	panel.HTML = l.provider.ProvideContent(identity, caps)
	l.panels.Store(panel.ID, panel)

	l.log.Info("panel opened",
		zap.String("panel_id", panel.ID.String()),
		zap.String("identity", identity.String()))
	return panel
}

// Get retrieves a panel by ID.
func (l *Loader) Get(panelID id.PanelID) (*Panel, bool) {
	val, ok := l.panels.Load(panelID)
	if !ok {
		return nil, false
	}
	return val.(*Panel), true
}

// List returns all open panels ordered by creation time.
func (l *Loader) List() []*Panel {
	var panels []*Panel
	l.panels.Range(func(_, value interface{}) bool {
		panels = append(panels, value.(*Panel))
		return true
	})
	sort.Slice(panels, func(i, j int) bool {
		if panels[i].CreatedAt.Equal(panels[j].CreatedAt) {
			return panels[i].ID < panels[j].ID
		}
		return panels[i].CreatedAt.Before(panels[j].CreatedAt)
	})
	return panels
}

// Close discards a panel. Returns false if unknown.
func (l *Loader) Close(panelID id.PanelID) bool {
	_, ok := l.panels.LoadAndDelete(panelID)
	return ok
}

// Stats returns loader statistics.
func (l *Loader) Stats() map[string]interface{} {
	count := 0
	l.panels.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	return map[string]interface{}{
		"open_panels": count,
	}
}
