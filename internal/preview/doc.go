// Package preview builds sandboxed map preview documents.
//
// The package owns the security-relevant core of the service: scrubbing
// untrusted file text for embedding inside a template literal, assembling a
// Content-Security-Policy-scoped HTML document, and minting the per-panel
// nonces that authorize its script and style tags. Rendering, format
// detection and reprojection happen in the browser via the libraries the
// generated page loads; nothing here parses geospatial data.
//
// Key pieces:
//   - Identity: synthetic per-document preview key
//   - Overrides: per-identity projection override store
//   - Sanitize: template-literal escaping and CDATA stripping
//   - Provider: identity -> full HTML document
//   - Loader: panel creation, nonce generation, capability wiring
package preview
