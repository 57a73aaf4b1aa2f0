package domain

import (
	"errors"
	"strings"
)

// Sentinel errors shared across the engine. The delivery layer maps each of
// these to an HTTP status; callers discriminate with errors.Is, never by
// parsing messages.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrSeatsExhausted    = errors.New("no seats available")
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrConflictRetryable marks a concurrency-control conflict (serialization
	// failure or deadlock). The registration service retries these internally a
	// bounded number of times before surfacing the error.
	ErrConflictRetryable = errors.New("transient conflict, retry")

	// ErrStorageUnavailable means the durable store could not be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports malformed input. Fields holds one message per
// violated rule.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// NewValidationError returns a ValidationError with the given messages.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
