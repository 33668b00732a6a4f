// Package relay implements the send pipeline: request validation, delivery
// mode selection, per-recipient content rendering and fan-out over the
// configured mail transports. It also hosts the HTTP controllers that
// expose the pipeline.
package relay
