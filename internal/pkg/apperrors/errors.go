package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrCourseNotFound = errors.New("course not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidAction    = errors.New("invalid capacity action")

	// Capacity errors
	ErrCapacityExhausted = errors.New("course has no available capacity")

	// Authentication errors
	ErrNoToken      = errors.New("no token provided")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CustomError carries an underlying sentinel plus a caller-facing message.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewValidationError creates a validation failure with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrCourseNotFound,
		Message: message,
	}
}
