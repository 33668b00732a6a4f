// Package client implements the HTTP client for the mgctl CLI to communicate
// with the mailgate API server, with methods for sending mail and inspecting
// server health, version and account status.
package client
