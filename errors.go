package twilio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies failures returned by the client and the webhook
// verifier.
type ErrorType string

const (
	// ErrTypeNetwork represents transport-level failures (connect, TLS, timeout)
	ErrTypeNetwork ErrorType = "network"
	// ErrTypeHTTP represents a non-accepted HTTP status from the API
	ErrTypeHTTP ErrorType = "http"
	// ErrTypeParsing represents malformed JSON or a missing required field
	ErrTypeParsing ErrorType = "parsing"
	// ErrTypeAuth represents a missing or invalid webhook signature
	ErrTypeAuth ErrorType = "authentication"
	// ErrTypeBadRequest represents malformed input shape
	ErrTypeBadRequest ErrorType = "bad_request"
	// ErrTypeUnknown represents errors not produced by this package
	ErrTypeUnknown ErrorType = "unknown"
)

// Error is the structured error returned by every operation in this package.
type Error struct {
	Type    ErrorType
	Message string
	// Status is the HTTP status code for ErrTypeHTTP errors, zero otherwise.
	Status int
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	parts := []string{string(e.Type), e.Message}

	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the operation that produced this error is safe
// and worthwhile to retry. Transport failures and server-side HTTP statuses
// are retryable; client errors, parsing failures, and auth failures are not.
func (e *Error) Retryable() bool {
	switch e.Type {
	case ErrTypeNetwork:
		return true
	case ErrTypeHTTP:
		return e.Status >= 500 && e.Status <= 599
	default:
		return false
	}
}

// NetworkError creates a new transport-failure error
func NetworkError(cause error) *Error {
	return &Error{
		Type:    ErrTypeNetwork,
		Message: "request failed",
		Cause:   cause,
	}
}

// HTTPError creates a new error for a non-accepted HTTP status code
func HTTPError(status int) *Error {
	return &Error{
		Type:    ErrTypeHTTP,
		Message: fmt.Sprintf("invalid HTTP status code %d", status),
		Status:  status,
	}
}

// ParsingError creates a new parsing error
func ParsingError(msg string) *Error {
	return &Error{
		Type:    ErrTypeParsing,
		Message: msg,
	}
}

// AuthError creates a new authentication error. The message is fixed so a
// caller relaying it cannot leak which verification step failed.
func AuthError() *Error {
	return &Error{
		Type:    ErrTypeAuth,
		Message: "unauthorized",
	}
}

// BadRequestError creates a new malformed-input error
func BadRequestError(msg string) *Error {
	return &Error{
		Type:    ErrTypeBadRequest,
		Message: msg,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}

	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Type == errType
}

// GetType returns the error type if err is an *Error, otherwise
// ErrTypeUnknown.
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return ErrTypeUnknown
	}

	return e.Type
}

// IsRetryable reports whether err classifies as retryable. Errors that are
// not produced by this package are not retryable.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Retryable()
}
