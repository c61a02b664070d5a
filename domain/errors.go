package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors. The messages are part of the public API.
var (
	ErrUserNotFound    = NewError(ErrCodeNotFound, "User not found")
	ErrTeamNotFound    = NewError(ErrCodeNotFound, "Team not found")
	ErrProjectNotFound = NewError(ErrCodeNotFound, "Project not found")
	ErrTaskNotFound    = NewError(ErrCodeNotFound, "Task not found")
	ErrRouteNotFound   = NewError(ErrCodeNotFound, "Not found")

	ErrMissingSignupFields = NewError(ErrCodeInvalid, "Missing required fields")
	ErrMissingCredentials  = NewError(ErrCodeInvalid, "Missing email or password")
	ErrTeamNameRequired    = NewError(ErrCodeInvalid, "Team name is required")
	ErrProjectFields       = NewError(ErrCodeInvalid, "Project name and team are required")
	ErrTaskFields          = NewError(ErrCodeInvalid, "Title and project are required")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "Invalid request body")
	ErrUserExists          = NewError(ErrCodeConflict, "User already exists")

	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "Invalid credentials")
	ErrNoToken            = NewError(ErrCodeUnauthorized, "No token provided")
	ErrInvalidToken       = NewError(ErrCodeUnauthorized, "Invalid token")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "Unauthorized")

	ErrTeamAccessDenied = NewError(ErrCodeForbidden, "Team not found or access denied")
	ErrAccessDenied     = NewError(ErrCodeForbidden, "Access denied")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Invalid returns a validation error carrying a caller-facing message.
func Invalid(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}
