package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks or broke a
// business rule. Validation failures are terminal; they are never retried.
var ErrValidation = errors.New("validation error")

// ErrUnavailable indicates that a remote dependency could not answer, even
// through its circuit breaker fallback.
var ErrUnavailable = errors.New("dependency unavailable")

// NewValidation wraps ErrValidation with a caller-meaningful reason.
func NewValidation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// NewNotFound wraps ErrNotFound with a caller-meaningful reason.
func NewNotFound(reason string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, reason)
}
