// Command server runs the map preview service.
//
// It serves the preview command surface over HTTP, generates CSP-scoped
// preview panels for geospatial documents, and streams change notifications
// to open panels over WebSocket.
package main
