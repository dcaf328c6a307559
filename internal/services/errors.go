package services

import (
	"errors"
	"fmt"

	"github.com/tatangdev/Mern-Invoice-App/internal/validation"
)

// Error taxonomy shared by the catalog and invoice services. Handlers map
// these to HTTP statuses with errors.Is/As; anything else is an internal
// failure reported generically.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// ValidationError is an ErrInvalidInput carrying per-field violations.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %d field violation(s)", len(e.Violations))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(v validation.Violations) error {
	return &ValidationError{Violations: v}
}

func notFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}
