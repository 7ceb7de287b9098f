package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPriority is returned when a priority label is not one of high, medium or low.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidTimestamp is returned when a date or date-time cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrEmptyPatch is returned when an update carries no fields at all.
	ErrEmptyPatch = errors.New("no fields to update")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte input limit.
	ErrPasswordTooLong = errors.New("password too long")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. When err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap exposes the wrapped sentinel. ValidationError always also matches ErrValidation.
func (e *ValidationError) Unwrap() []error {
	if e.Err == ErrValidation {
		return []error{ErrValidation}
	}
	return []error{e.Err, ErrValidation}
}
