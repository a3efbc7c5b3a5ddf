package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/settings"
	"github.com/champierre/mappreview/internal/workspace"
)

func TestNewNonce(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		nonce := NewNonce()

		assert.Len(t, nonce, 32)
		for _, r := range nonce {
			isAlnum := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			assert.True(t, isAlnum, "non-alphanumeric rune %q in nonce", r)
		}

		assert.False(t, seen[nonce], "nonce repeated")
		seen[nonce] = true
	}
}

func testLoader(t *testing.T) (*Loader, Identity) {
	t.Helper()
	doc := &workspace.Document{Path: "/data/points.geojson", Text: "{}", Format: workspace.FormatGeoJSON}
	src := &fakeSource{docs: []*workspace.Document{doc}}
	provider := NewProvider(src, settings.Default(), logging.NewNop())
	loader := NewLoader(provider, "http://127.0.0.1:8040", "/static", logging.NewNop())
	return loader, MakeIdentity(doc.Path)
}

func TestLoaderOpenCreatesFreshPanelEachCall(t *testing.T) {
	loader, identity := testLoader(t)

	p1 := loader.Open(identity, "points.geojson")
	p2 := loader.Open(identity, "points.geojson")

	// No pooling: repeated preview commands open additional panels.
	assert.NotEqual(t, p1.ID, p2.ID)
	assert.NotEqual(t, p1.ScriptNonce, p2.ScriptNonce)
	assert.NotEqual(t, p1.StyleNonce, p2.StyleNonce)
	assert.Len(t, loader.List(), 2)
}

func TestLoaderPanelNoncesAreIndependent(t *testing.T) {
	loader, identity := testLoader(t)

	panel := loader.Open(identity, "points.geojson")

	assert.NotEqual(t, panel.ScriptNonce, panel.StyleNonce)
	assert.Contains(t, panel.HTML, panel.ScriptNonce)
	assert.Contains(t, panel.HTML, panel.StyleNonce)
}

func TestLoaderResourceRewriting(t *testing.T) {
	loader, identity := testLoader(t)

	panel := loader.Open(identity, "points.geojson")

	assert.Contains(t, panel.HTML, `src="http://127.0.0.1:8040/static/ol.js"`)
	assert.Contains(t, panel.HTML, `href="http://127.0.0.1:8040/static/ol.css"`)
}

func TestLoaderGetAndClose(t *testing.T) {
	loader, identity := testLoader(t)

	panel := loader.Open(identity, "points.geojson")

	got, ok := loader.Get(panel.ID)
	require.True(t, ok)
	assert.Same(t, panel, got)

	assert.True(t, loader.Close(panel.ID))
	assert.False(t, loader.Close(panel.ID))

	_, ok = loader.Get(panel.ID)
	assert.False(t, ok)
	assert.Empty(t, loader.List())
}

func TestLoaderListOrderedByCreation(t *testing.T) {
	loader, identity := testLoader(t)

	p1 := loader.Open(identity, "a")
	p2 := loader.Open(identity, "b")
	p3 := loader.Open(identity, "c")

	list := loader.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{p1.ID.String(), p2.ID.String(), p3.ID.String()},
		[]string{list[0].ID.String(), list[1].ID.String(), list[2].ID.String()})
}
