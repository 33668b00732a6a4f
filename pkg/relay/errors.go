package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies relay failures so the API layer can pick a response
// status without matching on error strings.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConfiguration
	KindRender
	KindTransport
)

// String returns the wire name of the kind, the value clients see in the
// "error" field of a failed response.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration_error"
	case KindRender:
		return "render_error"
	case KindTransport:
		return "transport_error"
	default:
		return "internal_error"
	}
}

// Error is the failure type returned by the relay service. Message is safe
// to surface to API callers; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the failure kind of err, or KindInternal for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps a relay failure onto the status code the API serves.
// Render failures count as caller errors because the caller supplied the
// template name or inline source.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindRender:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
