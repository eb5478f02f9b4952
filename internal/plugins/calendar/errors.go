package calendar

import (
	"errors"
	"fmt"

	"github.com/keyxmakerx/almanac/internal/apperror"
)

// ConfigError reports a configuration document that is missing a required
// field or is structurally invalid.
type ConfigError struct {
	// Field is the document field at fault (e.g. "months[2].days").
	Field string

	// Reason is a human-readable description safe for the client.
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid calendar config: %s: %s", e.Field, e.Reason)
}

// DateReferenceError reports a year, month, or day outside the calendar.
type DateReferenceError struct {
	// Field is "year", "month", or "day".
	Field string

	// Value is the rejected value.
	Value int

	// Min and Max are the inclusive bounds.
	Min int
	Max int
}

// Error implements the error interface.
func (e *DateReferenceError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func configErr(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// toAppError maps engine errors to validation errors for the client and
// leaves anything else as an internal error.
func toAppError(err error) error {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return apperror.NewValidation(cfgErr.Error())
	}
	var refErr *DateReferenceError
	if errors.As(err, &refErr) {
		return apperror.NewValidation(refErr.Error())
	}
	if appErr, ok := apperror.As(err); ok {
		return appErr
	}
	return apperror.NewInternal(err)
}
