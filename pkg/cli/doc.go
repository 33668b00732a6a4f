// Package cli defines the server-side CLI flag configuration and parsing for the
// mailgate binary, including flags for config location, listen address, template
// directory, dry-run delivery, and shutdown behavior.
package cli
