package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of an application error. Controllers map
// codes to HTTP statuses; repositories and entities never reference HTTP.
type ErrorCode string

const (
	// ErrInvalidInput marks entity-level validation failures: malformed
	// title/description/rrule/url, inverted date ranges, negative offsets.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrInvalidRequestData marks transport-level binding/format failures.
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"

	// ErrNotFound marks operations addressing a nonexistent id, or an
	// ownership mismatch (deliberately indistinguishable from absence).
	ErrNotFound ErrorCode = "NOT_FOUND"

	// ErrAlreadyExists marks storage conflicts (unique violations) that
	// raced past application-level checks.
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// ErrTemporal marks reminder-time computation failures. These indicate
	// a data-integrity bug upstream and are propagated, never suppressed.
	ErrTemporal ErrorCode = "TEMPORAL_COMPUTATION"

	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"

	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// AppError is the error value exchanged between layers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation builds an entity validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message}
}

// NotFound builds a not-found error for the named entity and identifier.
func NotFound(entity string, id any) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s %v not found", entity, id)}
}

// Conflict builds a storage-conflict error.
func Conflict(message string, err error) *AppError {
	return &AppError{Code: ErrAlreadyExists, Message: message, Err: err}
}

// Temporal builds a reminder-computation error.
func Temporal(message string) *AppError {
	return &AppError{Code: ErrTemporal, Message: message}
}

// CodeOf extracts the ErrorCode from err, or ErrInternalServer when err is
// not an AppError.
func CodeOf(err error) ErrorCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrInternalServer
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
