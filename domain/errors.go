package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeInvalidOffsetFormat indicates a cutover string that is not a valid HH:MM:SS
	ErrCodeInvalidOffsetFormat ErrorCode = "INVALID_OFFSET_FORMAT"

	// ErrCodeConfigFetchFailed indicates the configuration source could not deliver the cutover
	ErrCodeConfigFetchFailed ErrorCode = "CONFIG_FETCH_FAILED"

	// ErrCodeInvalidInstant indicates an instant that cannot be resolved to an operating day
	ErrCodeInvalidInstant ErrorCode = "INVALID_INSTANT"

	// ErrCodeRepository indicates a repository operation error
	ErrCodeRepository ErrorCode = "REPOSITORY_ERROR"

	// ErrCodeUnsupportedOperation indicates an operation the configured backend cannot perform
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// ErrRepository creates a repository error
func ErrRepository(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeRepository, fmt.Sprintf("repository error in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrUnsupportedOperation creates an error for operations a backend does not implement
func ErrUnsupportedOperation(operation string, backend string) *DomainError {
	return NewDomainError(ErrCodeUnsupportedOperation, fmt.Sprintf("%s is not supported by the %s source", operation, backend)).
		WithDetails("operation", operation).
		WithDetails("backend", backend)
}

// Cutover errors

// ErrInvalidOffsetFormat creates an error for a malformed cutover string
func ErrInvalidOffsetFormat(raw string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidOffsetFormat, fmt.Sprintf("invalid cutover %q: %s", raw, reason)).
		WithDetails("raw", raw).
		WithDetails("reason", reason)
}

// ErrConfigFetchFailed creates a fetch failure error for the named source
func ErrConfigFetchFailed(source string, reason string) *DomainError {
	return NewDomainError(ErrCodeConfigFetchFailed, fmt.Sprintf("failed to fetch cutover from %s: %s", source, reason)).
		WithDetails("source", source).
		WithDetails("reason", reason)
}

// ErrConfigFetchFailedWithCause creates a fetch failure error with cause
func ErrConfigFetchFailedWithCause(source string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeConfigFetchFailed, fmt.Sprintf("failed to fetch cutover from %s", source), err).
		WithDetails("source", source)
}

// ErrConfigFetchStatus creates a fetch failure error for a non-2xx response
func ErrConfigFetchStatus(source string, statusCode int, response string) *DomainError {
	return NewDomainError(ErrCodeConfigFetchFailed, fmt.Sprintf("failed to fetch cutover from %s: status %d", source, statusCode)).
		WithDetails("source", source).
		WithDetails("statusCode", statusCode).
		WithDetails("response", response)
}

// ErrInvalidInstant creates an invalid instant error
func ErrInvalidInstant(raw string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInstant, fmt.Sprintf("invalid instant %q: %s", raw, reason)).
		WithDetails("raw", raw).
		WithDetails("reason", reason)
}

// IsErrorCode checks if an error, or any error it wraps, has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
