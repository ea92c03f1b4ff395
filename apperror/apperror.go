// Package apperror defines the application's error taxonomy and the response
// shape the terminal error handler emits. Every error the handlers surface is
// either one of these tagged kinds (operational, carries a status code and a
// user-safe message) or gets coerced into a generic internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType tags the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// BadRequestError represents a client mistake that is not a schema
	// violation, e.g. registering an email that already exists.
	BadRequestError
	// AuthError represents an authentication failure (bad credentials,
	// missing or invalid token).
	AuthError
	// NotFoundError represents a resource that does not exist for the
	// caller. Ownership mismatches surface as this kind, never as 403.
	NotFoundError
	// ValidationError represents a request-body schema violation.
	ValidationError
	// PayloadTooLargeError represents a request body over the size cap.
	PayloadTooLargeError
	// DatabaseError represents an error originating from the store.
	DatabaseError
	// ConfigError represents an error in application configuration.
	ConfigError
	// InternalError represents a generic unexpected server error.
	InternalError
)

// AppError is the application's error type. It wraps an optional underlying
// error so errors.Is/errors.As can still inspect the cause chain.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error satisfies the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status code.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case BadRequestError, ValidationError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case PayloadTooLargeError:
		return http.StatusRequestEntityTooLarge
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Status returns "fail" for 4xx errors and "error" for 5xx errors.
func (e *AppError) Status() string {
	if code := e.StatusCode(); code >= 400 && code < 500 {
		return "fail"
	}
	return "error"
}

// NewAppError creates an AppError of an arbitrary kind.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlying,
	}
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewAuthError creates an AuthError.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewPayloadTooLargeError creates a PayloadTooLargeError.
func NewPayloadTooLargeError(message string, underlying error) *AppError {
	return NewAppError(PayloadTooLargeError, message, underlying)
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a ConfigError.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the body every failed request gets. Status is "fail" for
// client errors and "error" for server errors; message is user-safe.
type ErrorResponse struct {
	Status  string `json:"status" example:"fail"`
	Message string `json:"message" example:"A description of the error"`
}

// ToResponse converts an AppError into the terminal response body. Only the
// user-facing message is exposed; the underlying error stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Status: e.Status(), Message: e.Message}
}

// FromError converts a generic error to an *AppError if one is in the chain.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsValidationError checks if an error is a Validation error.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsBadRequest checks if an error is a BadRequest error.
func IsBadRequest(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == BadRequestError
}
