// Package render loads named HTML mail templates and renders them with
// per-request context. Raw HTML bodies pass through the same engine, so ad
// hoc placeholders are filled identically to stored templates.
package render
