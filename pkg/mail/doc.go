// Package mail implements the outbound transports of the relay: SMTP via
// gomail, Amazon SES, and a log-only sink for dry runs. Each configured
// account maps to one Sender; a Sender performs exactly one delivery attempt
// per message and never retries on its own.
package mail
