// Package validate provides field-level validation for incoming data, the
// checks the frontend cannot be trusted to perform. Anything beyond these
// declared bounds is left to the database constraints.
package validate

import (
	"fmt"
	"strings"
)

// Error describes a single invalid input field. HTTP handlers map it to a
// 400 response carrying the field name.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Required checks that value is non-empty and no longer than max bytes.
func Required(field, value string, max int) error {
	if value == "" {
		return &Error{Field: field, Message: "is required"}
	}
	return MaxLen(field, value, max)
}

// MaxLen checks that value is no longer than max bytes.
func MaxLen(field, value string, max int) error {
	if len(value) > max {
		return &Error{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return nil
}

// Email checks that value looks like an email address: at least a@b, at most
// max bytes. Full RFC validation is deliberately out of scope; the mail
// provider is the final judge.
func Email(field, value string, max int) error {
	if err := Required(field, value, max); err != nil {
		return err
	}
	at := strings.Index(value, "@")
	if at < 1 || at == len(value)-1 {
		return &Error{Field: field, Message: "must be a valid email address"}
	}
	return nil
}
