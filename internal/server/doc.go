// Package server wires the preview service together: workspace registry,
// content provider, panel loader, HTTP command surface, change notification
// stream, middleware stack and static resource scope.
package server
