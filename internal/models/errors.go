package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup by id or period yields nothing
	ErrNotFound = errors.New("not found")
	// ErrValidation wraps every input rejection
	ErrValidation = errors.New("validation failed")
)

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for field
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
