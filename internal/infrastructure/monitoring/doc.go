// Package monitoring provides Prometheus metrics for the preview service.
//
// Metrics cover the HTTP surface (request counts and latency), the preview
// core (panels created, generation duration, open documents) and the change
// notification stream (active connections). Collection happens in the gin
// middleware and at the call sites that create panels.
package monitoring
