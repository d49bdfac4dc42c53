package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeInvalidInput indicates malformed caller input (e.g. a postal code that is not 5 digits)
	ErrorTypeInvalidInput ErrorType = "INVALID_INPUT"

	// ErrorTypeResolution indicates a postal code could not be resolved to coordinates
	ErrorTypeResolution ErrorType = "RESOLUTION"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewInvalidInputError creates an error for malformed caller input
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
	}
}

// NewResolutionError creates an error for a postal code that failed to resolve
func NewResolutionError(postalCode string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeResolution,
		Message: fmt.Sprintf("postal code %s could not be resolved", postalCode),
		Err:     err,
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or "" if there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// AsAppError returns the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool { return TypeOf(err) == ErrorTypeNotFound }

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return TypeOf(err) == ErrorTypeValidation }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return TypeOf(err) == ErrorTypeConflict }

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool { return TypeOf(err) == ErrorTypeInvalidInput }

// IsResolution reports whether err is a resolution error
func IsResolution(err error) bool { return TypeOf(err) == ErrorTypeResolution }
