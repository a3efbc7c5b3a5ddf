package preview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/settings"
	"github.com/champierre/mappreview/internal/workspace"
)

func testCaps() Capabilities {
	return Capabilities{
		ResourceURI: func(name string) string {
			return "http://127.0.0.1:8040/static/" + name
		},
		CSPSource:   "http://127.0.0.1:8040",
		ScriptNonce: NewNonce(),
		StyleNonce:  NewNonce(),
	}
}

func testProvider(t *testing.T, text string, s *settings.Settings) (*Provider, Identity) {
	t.Helper()
	if s == nil {
		s = settings.Default()
	}
	doc := &workspace.Document{Path: "/data/points.geojson", Text: text, Format: workspace.FormatGeoJSON}
	src := &fakeSource{docs: []*workspace.Document{doc}}
	return NewProvider(src, s, logging.NewNop()), MakeIdentity(doc.Path)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestProvideContentTagsEveryResourceWithItsNonce(t *testing.T) {
	p, identity := testProvider(t, `{"type":"FeatureCollection","features":[]}`, nil)
	caps := testCaps()

	page := parseHTML(t, p.ProvideContent(identity, caps))

	scripts := page.Find("script")
	assert.Equal(t, 6, scripts.Length(), "five resource scripts plus the inline bootstrap")
	scripts.Each(func(_ int, sel *goquery.Selection) {
		nonce, ok := sel.Attr("nonce")
		assert.True(t, ok, "script without nonce")
		assert.Equal(t, caps.ScriptNonce, nonce)
	})

	links := page.Find("link[rel='stylesheet']")
	assert.Equal(t, 2, links.Length())
	links.Each(func(_ int, sel *goquery.Selection) {
		nonce, ok := sel.Attr("nonce")
		assert.True(t, ok, "stylesheet without nonce")
		assert.Equal(t, caps.StyleNonce, nonce)

		href, _ := sel.Attr("href")
		assert.True(t, strings.HasPrefix(href, "http://127.0.0.1:8040/static/"), "href outside resource scope: %s", href)
	})

	assert.Equal(t, 1, page.Find("#map").Length())
	assert.Equal(t, 1, page.Find("#format-display").Length())
}

func TestProvideContentCSPMatchesEmittedTags(t *testing.T) {
	p, identity := testProvider(t, "{}", nil)
	caps := testCaps()

	page := parseHTML(t, p.ProvideContent(identity, caps))

	csp, ok := page.Find("meta[http-equiv='Content-Security-Policy']").Attr("content")
	require.True(t, ok, "CSP meta missing")

	// The nonce/origin coupling contract: what the tags carry, the policy
	// must authorize, in the same document.
	assert.Contains(t, csp, "script-src 'nonce-"+caps.ScriptNonce+"' "+TrustedCDN)
	assert.Contains(t, csp, "'nonce-"+caps.StyleNonce+"'")
	assert.Contains(t, csp, "img-src "+caps.CSPSource+" https:")
	assert.Contains(t, csp, "connect-src "+caps.CSPSource+" "+TrustedCDN)
	assert.Contains(t, csp, "worker-src blob:")
	assert.Contains(t, csp, "default-src 'none'")
}

func TestProvideContentEmbedsSanitizedText(t *testing.T) {
	text := "pre`mid${post}<![CDATA[gone]]>tail"
	p, identity := testProvider(t, text, nil)

	html := p.ProvideContent(identity, testCaps())

	assert.Contains(t, html, Sanitize(text))
	assert.NotContains(t, html, "CDATA")
}

func TestProvideContentWithoutOverrideUsesNullSentinel(t *testing.T) {
	p, identity := testProvider(t, "{}", nil)

	html := p.ProvideContent(identity, testCaps())

	assert.Contains(t, html, "var previewProjection = null;")
	assert.Contains(t, html, `featureProjection: "EPSG:3857"`)
}

func TestProvideContentEmbedsOverride(t *testing.T) {
	p, identity := testProvider(t, "{}", nil)
	p.SetOverride(identity, "EPSG:2193")

	html := p.ProvideContent(identity, testCaps())

	assert.Contains(t, html, `var previewProjection = "EPSG:2193";`)
	assert.Contains(t, html, "formatOptions.dataProjection = previewProjection;")
}

func TestProvideContentRegistersCustomProjections(t *testing.T) {
	s := settings.Default()
	s.Projections = []settings.Projection{
		{EpsgCode: 2193, Definition: "+proj=tmerc +lat_0=0"},
	}
	p, identity := testProvider(t, "{}", s)

	html := p.ProvideContent(identity, testCaps())

	assert.Contains(t, html, `proj4.defs("EPSG:2193", "+proj=tmerc +lat_0=0");`)
}

func TestProvideContentEmbedsSettings(t *testing.T) {
	s := settings.Default()
	s.DefaultBaseLayer = "carto-dark"
	p, identity := testProvider(t, "{}", s)

	html := p.ProvideContent(identity, testCaps())

	assert.Contains(t, html, `"defaultBaseLayer":"carto-dark"`)
	// Debug settings never ship into the page.
	assert.NotContains(t, html, "dumpContentPath")
}

func TestProvideContentUnresolvableIdentity(t *testing.T) {
	p, _ := testProvider(t, "{}", nil)
	caps := testCaps()

	html := p.ProvideContent(MakeIdentity("/data/closed.kml"), caps)

	assert.Contains(t, html, "Cannot resolve preview identity")
	assert.Contains(t, html, "map-preview:/data/closed.kml")
	// Still a complete, CSP-scoped document.
	page := parseHTML(t, html)
	_, ok := page.Find("meta[http-equiv='Content-Security-Policy']").Attr("content")
	assert.True(t, ok)
}

func TestProvideContentScrubsHostileIdentity(t *testing.T) {
	p, _ := testProvider(t, "{}", nil)

	html := p.ProvideContent(MakeIdentity("/data/<img src=x onerror=alert(1)>.kml"), testCaps())

	assert.NotContains(t, html, "<img src=x")
}

func TestProvideContentDebugDump(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump.html")
	s := settings.Default()
	s.Debug.DumpContentPath = dump
	p, identity := testProvider(t, "{}", s)

	html := p.ProvideContent(identity, testCaps())

	data, err := os.ReadFile(dump)
	require.NoError(t, err)

	// The dump carries the body only, not the document shell.
	assert.Contains(t, string(data), `<div id="map"`)
	assert.NotContains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, html, "<!DOCTYPE html>")
}

func TestProvideContentDebugDumpFailureIsNonFatal(t *testing.T) {
	s := settings.Default()
	s.Debug.DumpContentPath = filepath.Join(t.TempDir(), "missing", "nested", "dump.html")
	p, identity := testProvider(t, "{}", s)

	events, cancel := p.Subscribe()
	defer cancel()

	html := p.ProvideContent(identity, testCaps())
	assert.Contains(t, html, "<!DOCTYPE html>", "generation must survive a dump failure")

	// The failure surfaces as a warning event, not an error.
	var sawWarning bool
	for len(events) > 0 {
		ev := <-events
		if ev.Type == EventWarning {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}

func TestProviderNotifications(t *testing.T) {
	p, identity := testProvider(t, "{}", nil)

	events, cancel := p.Subscribe()
	defer cancel()

	p.SetOverride(identity, "EPSG:3857")
	p.ClearOverride(identity)
	p.NotifyDocumentOpened(identity)

	for i := 0; i < 3; i++ {
		ev := <-events
		assert.Equal(t, EventContentChanged, ev.Type)
		assert.Equal(t, identity, ev.Identity)
	}
}

func TestProviderClearThenGetIsAbsent(t *testing.T) {
	p, identity := testProvider(t, "{}", nil)

	p.SetOverride(identity, "EPSG:2193")
	p.ClearOverride(identity)

	_, ok := p.Override(identity)
	assert.False(t, ok)
}
