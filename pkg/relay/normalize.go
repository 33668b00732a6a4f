package relay

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxSubjectLength = 255

// Normalize validates the request in place and fills defaults. Structural
// problems come back as validation errors before any render or transport
// work happens.
func (r *SendRequest) Normalize() error {
	if len(r.Recipients) == 0 {
		return newError(KindValidation, "at least one recipient is required")
	}
	for i := range r.Recipients {
		rcpt := &r.Recipients[i]
		rcpt.Email = strings.TrimSpace(rcpt.Email)
		if rcpt.Email == "" {
			return newError(KindValidation, "recipient %d: email is required", i)
		}
		if err := checkEmail(rcpt.Email); err != nil {
			return wrapError(KindValidation, err, "recipient %d: invalid email %q", i, rcpt.Email)
		}
		rcpt.Name = strings.TrimSpace(rcpt.Name)
	}

	r.Subject = strings.TrimSpace(r.Subject)
	if r.Subject == "" {
		return newError(KindValidation, "subject is required")
	}
	if n := utf8.RuneCountInString(r.Subject); n > maxSubjectLength {
		return newError(KindValidation, "subject exceeds %d characters (got %d)", maxSubjectLength, n)
	}

	r.Template = strings.TrimSpace(r.Template)
	if r.Template == "" && strings.TrimSpace(r.HTML) == "" {
		return newError(KindValidation, "either template or html must be provided")
	}

	if r.DelaySeconds < 0 {
		return newError(KindValidation, "delaySeconds must not be negative")
	}
	if r.Context == nil {
		r.Context = map[string]interface{}{}
	}
	return nil
}

// checkEmail accepts bare addresses only. Display names belong in the
// recipient's name field, not inside the address.
func checkEmail(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return err
	}
	if parsed.Name != "" || parsed.Address != addr {
		return fmt.Errorf("must be a bare address without display name")
	}
	return nil
}
