package adjudicator

import (
	"errors"
	"fmt"
)

// ValidationError reports an input the engine refuses to adjudicate.
// It is never retried: the same input fails the same way.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// InvalidStateError reports a broken precondition discovered mid-computation.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "invalid state: " + e.Reason
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidStateError reports whether err wraps an *InvalidStateError.
func IsInvalidStateError(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}
