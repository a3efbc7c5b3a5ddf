// Package http exposes the preview command surface over HTTP.
//
// Two commands mirror the user-facing actions: POST /preview (plain, clears
// any stale projection override first) and POST /preview/projection (with a
// validated EPSG choice). The remaining routes serve generated panels,
// enumerate documents and panels, and drive workspace discovery.
package http
