// Package metrics defines Prometheus metrics for the mailgate relay,
// covering relay requests, per-recipient delivery outcomes, transport
// sends, and rate limiting.
package metrics
