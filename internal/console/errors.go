package console

import (
	"errors"
	"fmt"
)

// ErrSessionExpired marks an authentication failure from the backend.
// It is never retried here; the session layer owning re-login subscribes
// to EventSessionExpired on the bus and reacts.
var ErrSessionExpired = errors.New("session expired")

// ValidationError is a client-side rejection raised before any network
// call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// RequestError is a non-2xx response from the backend carrying the
// server's own message.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}
