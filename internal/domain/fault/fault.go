// Package fault defines the failure kinds shared across the recruitment
// cycle: validation, conflict, precondition, and not-found. Callers are
// expected to classify with errors.Is and surface the message to the user.
package fault

import (
	"errors"
	"fmt"
)

// Sentinel kinds. These allow errors.Is/As from callers.
var (
	ErrValidation   = errors.New("validation failure")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failure")
	ErrNotFound     = errors.New("not found")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Preconditionf wraps ErrPrecondition with a formatted message.
func Preconditionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
