package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/settings"
	"github.com/champierre/mappreview/internal/workspace"
)

// TrustedCDN is the single remote origin panels may load scripts from. Any
// change here must be mirrored in the generated script tags and the CSP
// declaration together, or the panel runtime refuses to execute.
const TrustedCDN = "https://cdn.jsdelivr.net"

// DisplayProjection is the projection every preview map renders in.
const DisplayProjection = ProjectionWebMercator

// panelResources is the fixed sequence of local resources every panel
// loads, in order. Names are rewritten through the capability context.
var panelResources = []struct {
	kind string // "script" or "style"
	name string
}{
	{"style", "ol.css"},
	{"style", "preview.css"},
	{"script", "ol.js"},
	{"script", "papaparse.min.js"},
	{"script", "proj4.js"},
	{"script", "purify.min.js"},
	{"script", "preview.js"},
}

// Provider synthesizes preview documents and owns the per-identity
// projection override state. One instance lives for the whole service;
// its event stream outlives any individual panel.
type Provider struct {
	docs      DocumentSource
	overrides *Overrides
	settings  *settings.Settings
	events    *events
	scrub     *bluemonday.Policy
	log       *logging.Logger
}

// NewProvider creates a content provider over the given document source.
func NewProvider(docs DocumentSource, s *settings.Settings, log *logging.Logger) *Provider {
	return &Provider{
		docs:      docs,
		overrides: NewOverrides(),
		settings:  s,
		events:    newEvents(),
		scrub:     bluemonday.StrictPolicy(),
		log:       log,
	}
}

// Settings exposes the map settings the provider embeds into pages.
func (p *Provider) Settings() *settings.Settings {
	return p.settings
}

// SetOverride stores a projection override and notifies subscribers.
func (p *Provider) SetOverride(identity Identity, code string) {
	p.overrides.Set(identity, code)
	p.events.publish(Event{Type: EventContentChanged, Identity: identity})
}

// ClearOverride drops any projection override and notifies subscribers.
// Callers issue this before opening a plain preview so stale overrides
// never leak into the generated content.
func (p *Provider) ClearOverride(identity Identity) {
	p.overrides.Clear(identity)
	p.events.publish(Event{Type: EventContentChanged, Identity: identity})
}

// Override returns the stored projection override for an identity.
func (p *Provider) Override(identity Identity) (string, bool) {
	return p.overrides.Get(identity)
}

// NotifyDocumentOpened publishes a content-change event for a document that
// was opened or refreshed.
func (p *Provider) NotifyDocumentOpened(identity Identity) {
	p.events.publish(Event{Type: EventContentChanged, Identity: identity})
}

// Subscribe returns a channel of change events and a cancel function.
// Subscribers that fall behind miss events instead of blocking generation.
func (p *Provider) Subscribe() (<-chan Event, func()) {
	return p.events.subscribe()
}

// ProvideContent builds the full HTML document for an identity. Total: an
// unresolvable identity yields an inert error document, never an error
// return. The capability context arrives as an explicit parameter so
// generation without one cannot be expressed.
func (p *Provider) ProvideContent(identity Identity, caps Capabilities) string {
	doc := Resolve(p.docs, identity)
	if doc == nil {
		p.log.Warn("preview identity did not resolve", zap.String("identity", identity.String()))
		body := fmt.Sprintf(
			`<p class="error">Cannot resolve preview identity <code>%s</code>. The source document may have been closed.</p>`,
			p.scrub.Sanitize(identity.String()))
		return p.documentShell("Map Preview", body, caps)
	}

	body := p.buildBody(doc, identity, caps)
	p.dumpContent(identity, body)

	title := filepath.Base(doc.Path)
	return p.documentShell(p.scrub.Sanitize(title), body, caps)
}

// buildBody assembles the panel body: map container, format overlay, the
// fixed resource tags, and the inline bootstrap script.
func (p *Provider) buildBody(doc *workspace.Document, identity Identity, caps Capabilities) string {
	var b strings.Builder

	b.WriteString(`<div id="map" class="map"></div>` + "\n")
	b.WriteString(`<div id="format-display" class="format-display"></div>` + "\n")

	for _, res := range panelResources {
		uri := caps.ResourceURI(res.name)
		switch res.kind {
		case "style":
			fmt.Fprintf(&b, "<link rel=\"stylesheet\" nonce=\"%s\" href=\"%s\">\n", caps.StyleNonce, uri)
		case "script":
			fmt.Fprintf(&b, "<script nonce=\"%s\" src=\"%s\"></script>\n", caps.ScriptNonce, uri)
		}
	}

	b.WriteString(p.buildBootstrapScript(doc, identity, caps))
	return b.String()
}

// buildBootstrapScript emits the inline script that hands the sanitized
// document text to the in-page renderer. Synchronous failures inside it are
// caught in-page and shown as a DOMPurify-sanitized error block.
func (p *Provider) buildBootstrapScript(doc *workspace.Document, identity Identity, caps Capabilities) string {
	projection := "null"
	if code, ok := p.overrides.Get(identity); ok {
		projection = jsString(code)
	}

	var defs strings.Builder
	for _, proj := range p.settings.Projections {
		fmt.Fprintf(&defs, "    proj4.defs(%s, %s);\n",
			jsString(fmt.Sprintf("EPSG:%d", proj.EpsgCode)), jsString(proj.Definition))
	}

	settingsJSON, err := sonic.Marshal(p.settings)
	if err != nil {
		// Settings are plain data; this only fires on a programming error.
		p.log.Warn("failed to serialize preview settings", zap.Error(err))
		settingsJSON = []byte("{}")
	}

	return fmt.Sprintf(`<script nonce="%s">
(function () {
    'use strict';
    var previewProjection = %s;
%s    var previewSettings = %s;
    var content = `+"`%s`"+`;
    var formatOptions = { featureProjection: %s };
    if (previewProjection) {
        formatOptions.dataProjection = previewProjection;
    }
    try {
        createPreviewSource(content, formatOptions, function (preview) {
            document.getElementById('format-display').innerHTML = 'Format: <strong>' + preview.driver + '</strong>';
            initPreviewMap('map', preview, previewSettings);
        });
    } catch (e) {
        document.body.innerHTML = DOMPurify.sanitize('<div class="error"><h3>' + e.name + '</h3><p>' + e.message + '</p><pre>' + e.stack + '</pre></div>');
    }
})();
</script>
`,
		caps.ScriptNonce,
		projection,
		defs.String(),
		string(settingsJSON),
		Sanitize(doc.Text),
		jsString(DisplayProjection))
}

// documentShell wraps a body in the full document with the panel CSP. The
// nonces and origins referenced here and the tags emitted by buildBody move
// together; see TrustedCDN.
func (p *Provider) documentShell(title, body string, caps Capabilities) string {
	csp := fmt.Sprintf(
		"default-src 'none'; img-src %[1]s https:; style-src %[1]s 'nonce-%[2]s'; style-src-elem %[1]s 'nonce-%[2]s'; script-src 'nonce-%[3]s' %[4]s; connect-src %[1]s %[4]s; worker-src blob:",
		caps.CSPSource, caps.StyleNonce, caps.ScriptNonce, TrustedCDN)

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta http-equiv="Content-Security-Policy" content="%s">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, csp, title, body)
}

// dumpContent writes the generated body (body only, not the document shell)
// to the configured debug path. Failure is reported and swallowed.
func (p *Provider) dumpContent(identity Identity, body string) {
	path := p.settings.Debug.DumpContentPath
	if path == "" {
		return
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		p.log.Warn("failed to write preview content dump",
			zap.String("path", path), zap.Error(err))
		p.events.publish(Event{
			Type:     EventWarning,
			Identity: identity,
			Message:  fmt.Sprintf("failed to write preview content dump to %s", path),
		})
	}
}

// jsString renders a Go string as a JavaScript string literal.
func jsString(s string) string {
	out, err := sonic.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(out)
}
