// Package workspace tracks the documents available for previewing.
//
// The registry holds opened documents in insertion order; preview identity
// resolution scans this order, first match wins. Discovery locates
// previewable geospatial files under a workspace root using fastwalk for
// traversal and doublestar for gitignore-style patterns.
package workspace
