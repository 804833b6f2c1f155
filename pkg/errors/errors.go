// Package errors defines the coded errors shared by the CLI, the HTTP
// service and the play loop.
//
// The tower core (grid, builder, scorer) never returns errors. A word that
// does not fit is a false from TryInsert, a failed build is an empty
// placement list, and a tower that breaks the rules is an invalid report.
// Everything around the core (config, the game client, the cache, the
// server) returns an [*Error] whose [Code] tells callers what to do next:
//
//   - INVALID_*: the caller sent something wrong; fix the input.
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: transient; retry later.
//   - UNAUTHORIZED, INVALID_CONFIG: stop, see [Fatal].
//   - GAME_REJECTED, OUT_OF_BOUNDS: the service refused a tower; build
//     another one.
//
// Typical use:
//
//	if !vol.Valid() {
//	    return errors.New(errors.ErrCodeInvalidVolume, "volume %s", vol)
//	}
//	words, err := client.Words(ctx)
//	if errors.Is(err, errors.ErrCodeUnauthorized) {
//	    return err
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidVolume    Code = "INVALID_VOLUME"
	ErrCodeInvalidPlacement Code = "INVALID_PLACEMENT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Game service errors
	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeGameRejected Code = "GAME_REJECTED"
	ErrCodeOutOfBounds  Code = "OUT_OF_BOUNDS"

	// Build errors
	ErrCodeBuildFailed Code = "BUILD_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus is the status the HTTP service answers with for c.
func (c Code) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidVolume, ErrCodeInvalidPlacement:
		return http.StatusBadRequest
	case ErrCodeBuildFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeGameRejected, ErrCodeOutOfBounds:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Fatal reports whether err should stop a long-running play loop rather
// than be retried after a backoff.
func Fatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnauthorized, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
