package domain

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a calculation run does not exist.
var ErrRunNotFound = errors.New("calculation run not found")

// ValidationError reports malformed or out-of-range input, naming the
// offending field. It is raised before any arithmetic runs; an invalid
// value never reaches the calculation core.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError and, if so,
// returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
