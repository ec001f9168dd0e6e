// Package errors provides structured error types for the almanac solver.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Malformed almanac input
//   - EMPTY_SEEDS, UNREACHABLE_LOCATION, DUPLICATE_STAGE: Structurally invalid almanacs
//   - TIMEOUT, CANCELED: The computation was interrupted
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidNumber, "line %d: %q is not a number", n, tok)
//	if errors.Is(err, errors.ErrCodeInvalidNumber) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "ranged scan interrupted")
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Parse faults
	ErrCodeInvalidHeader     Code = "INVALID_HEADER"
	ErrCodeInvalidNumber     Code = "INVALID_NUMBER"
	ErrCodeInvalidFieldCount Code = "INVALID_FIELD_COUNT"
	ErrCodeInvalidEntry      Code = "INVALID_ENTRY"
	ErrCodeInvalidMode       Code = "INVALID_MODE"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Structural faults
	ErrCodeEmptySeeds          Code = "EMPTY_SEEDS"
	ErrCodeDuplicateStage      Code = "DUPLICATE_STAGE"
	ErrCodeUnreachableLocation Code = "UNREACHABLE_LOCATION"

	// Interruption
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCanceled Code = "CANCELED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsInputError reports whether err was caused by a malformed or structurally
// invalid almanac, as opposed to an interruption or an internal failure.
func IsInputError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidHeader, ErrCodeInvalidNumber, ErrCodeInvalidFieldCount,
		ErrCodeInvalidEntry, ErrCodeInvalidMode, ErrCodeInvalidFormat, ErrCodeEmptySeeds,
		ErrCodeDuplicateStage, ErrCodeUnreachableLocation:
		return true
	}
	return false
}

// FromContext converts a context error into a coded error.
// It returns nil when err is nil.
func FromContext(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return Wrap(ErrCodeCanceled, err, format, args...)
	}
	return Wrap(ErrCodeInternal, err, format, args...)
}
