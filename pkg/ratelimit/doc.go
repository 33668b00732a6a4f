// Package ratelimit provides per-IP token-bucket rate limiting middleware
// for the send endpoints, with automatic stale-entry cleanup. Limits are
// deliberately low: every allowed request can fan out into many outbound
// mails.
package ratelimit
