// Package cmd implements the cobra command tree for the mgctl CLI, including
// subcommands for sending mail, listing accounts, checking server health,
// configuration management, and shell completion.
package cmd
