package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies session-visible failures
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindUnavailable     Kind = "unavailable"
	KindDataError       Kind = "data_error"
	KindValidation      Kind = "validation"
)

// AppError represents a structured application error
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewUnauthenticated creates an authentication error; it always unwinds
// to session teardown at the operation boundary.
func NewUnauthenticated(message string) *AppError {
	return &AppError{
		Kind:       KindUnauthenticated,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbidden creates a role-gating error
func NewForbidden(message string) *AppError {
	return &AppError{
		Kind:       KindForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewUnavailable creates a non-fatal network/service error
func NewUnavailable(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// NewDataError creates a malformed-response error; callers handle it the
// same way as Unavailable.
func NewDataError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindDataError,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewValidation creates an invalid-input error
func NewValidation(message string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// KindOf returns the error's kind, or empty for plain errors
func KindOf(err error) Kind {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind
	}
	return ""
}

// IsKind checks if the error is of a specific kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
