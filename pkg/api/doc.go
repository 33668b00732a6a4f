// Package api provides the HTTP server setup for mailgate. It configures
// the gin engine with logging, CORS and trusted-proxy handling, exposes the
// Prometheus metrics endpoint and the embedded API docs, and mounts the
// registered controllers.
package api
