package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors carried by AppError.Err
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("upstream unavailable")
)

// AppError is an error with a user-facing message and the HTTP status it maps to
type AppError struct {
	HTTPStatus int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFoundError creates a not found error
func NotFoundError(resource string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Err:        ErrNotFound,
	}
}

// AlreadyExistsError creates a conflict error
func AlreadyExistsError(resource string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusConflict,
		Message:    fmt.Sprintf("%s already exists", resource),
		Err:        ErrAlreadyExists,
	}
}

// UnauthorizedError creates an unauthorized error
func UnauthorizedError(message string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusUnauthorized,
		Message:    message,
		Err:        ErrUnauthorized,
	}
}

// ValidationError creates an error for input the caller must fix
func ValidationError(message string) *AppError {
	return &AppError{
		HTTPStatus: http.StatusBadRequest,
		Message:    message,
		Err:        ErrInvalidInput,
	}
}

// UnavailableError wraps a failure reported by a backing service.
// The message is shown to the user as is.
func UnavailableError(message string, err error) *AppError {
	return &AppError{
		HTTPStatus: http.StatusBadGateway,
		Message:    message,
		Err:        errors.Join(ErrUnavailable, err),
	}
}

// InternalError creates an internal server error
func InternalError(message string, err error) *AppError {
	return &AppError{
		HTTPStatus: http.StatusInternalServerError,
		Message:    message,
		Err:        err,
	}
}

// GetAppError extracts an AppError from the error chain, or nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsInvalidInput checks if the error is a validation error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnavailable checks if the error comes from a failing upstream
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
