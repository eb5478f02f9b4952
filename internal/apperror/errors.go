// Package apperror defines the errors Almanac handlers return. Each carries
// the HTTP status and a message that is safe to show to wiki readers; the
// server's error handler writes them as JSON for /api/ and as an HTML page
// elsewhere.
//
// Database and Redis failures are wrapped with NewInternal or NewUnavailable
// so their text only reaches the logs.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error with an HTTP status and a client-safe message.
type AppError struct {
	// Code is the HTTP status written to the response.
	Code int `json:"-"`

	// Type classifies the error for API clients, e.g. "validation_error".
	Type string `json:"type"`

	// Message is shown to the client as is.
	Message string `json:"message"`

	// Internal is the logged cause. Never sent to the client.
	Internal error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func newError(code int, typ, message string, cause error) *AppError {
	return &AppError{Code: code, Type: typ, Message: message, Internal: cause}
}

// NewBadRequest is a 400 for malformed requests: bad namespaces, unreadable
// bodies, and JSON that does not bind.
func NewBadRequest(message string) *AppError {
	return newError(http.StatusBadRequest, "bad_request", message, nil)
}

// NewUnauthorized is a 401 for a missing or wrong admin token.
func NewUnauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, "unauthorized", message, nil)
}

// NewForbidden is a 403, used when no admin token is configured at all.
func NewForbidden(message string) *AppError {
	return newError(http.StatusForbidden, "forbidden", message, nil)
}

// NewTooManyRequests is a 429 from the rate limiter.
func NewTooManyRequests(message string) *AppError {
	return newError(http.StatusTooManyRequests, "rate_limited", message, nil)
}

// NewValidation is a 422 for invalid calendar documents, out-of-range dates,
// and overlong revision messages.
func NewValidation(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, "validation_error", message, nil)
}

// NewInternal is a 500 with a generic message; err is only logged.
func NewInternal(err error) *AppError {
	return newError(http.StatusInternalServerError, "internal_error",
		"An unexpected error occurred. Please try again.", err)
}

// NewUnavailable is a 503 for a backing store that does not answer.
func NewUnavailable(message string, err error) *AppError {
	return newError(http.StatusServiceUnavailable, "unavailable", message, err)
}
