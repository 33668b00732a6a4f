// Package config loads the mailgate configuration from a YAML file: the HTTP
// server settings, rate limiting, telemetry, template locations, and the mail
// accounts with their provider credentials. Credentials may also come from
// the environment so config files can stay free of secrets.
package config
