// Package ws implements the change notification stream.
//
// Open panels (or any other client) connect once and receive a JSON event
// whenever a previewed document is opened or refreshed, or its projection
// override changes, so they can re-request content. The provider's event
// fan-out drops messages to slow consumers rather than stalling content
// generation.
package ws
