package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gateway failures so callers can branch on the
// category instead of parsing messages.
type ErrorKind string

const (
	// KindInvalidCredentials covers rejected logins and signups (4xx).
	KindInvalidCredentials ErrorKind = "invalid-credentials"

	// KindServiceUnavailable covers network failures and 5xx responses.
	// The gateway never retries on its own; the caller decides.
	KindServiceUnavailable ErrorKind = "service-unavailable"

	// KindNotFound covers a 404 from a lookup.
	KindNotFound ErrorKind = "not-found"

	// KindValidation covers malformed local input (e.g. password policy),
	// detected before any network call.
	KindValidation ErrorKind = "validation"
)

// Error is a typed gateway failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("gateway: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a gateway Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind == kind
	}
	return false
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}
