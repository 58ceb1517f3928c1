// Package errors provides structured error types for the pathrank application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - input errors (INVALID_*, UNKNOWN_NODE): the caller supplied sequences
//     or options that cannot be ranked
//   - MALFORMED_SEQUENCE: never returned; it tags the recoverable issues of a
//     graph build report (a backtrack before the first node, a sequence of
//     only backtracks)
//   - structural errors (EMPTY_UNIVERSE, DEGENERATE_BETA): detected before
//     power iteration begins, never mid-computation
//   - INTERNAL_ERROR and FILE_NOT_FOUND for everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDegenerateBeta, "beta %g outside [0,1]", beta)
//	if errors.Is(err, errors.ErrCodeDegenerateBeta) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidOption     Code = "INVALID_OPTION"
	ErrCodeMalformedSequence Code = "MALFORMED_SEQUENCE"
	ErrCodeUnknownNode       Code = "UNKNOWN_NODE"

	// Structural errors, detected before iteration
	ErrCodeEmptyUniverse  Code = "EMPTY_UNIVERSE"
	ErrCodeDegenerateBeta Code = "DEGENERATE_BETA"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsInput reports whether err carries a code caused by caller input rather
// than an internal failure.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidOption,
		ErrCodeMalformedSequence, ErrCodeUnknownNode,
		ErrCodeEmptyUniverse, ErrCodeDegenerateBeta:
		return true
	}
	return false
}
