// Package errors provides structured error types for umlstack.
//
// Library functions in this module never panic on user data. Every failure
// is returned as an error value, and the errors raised by the project store,
// the diagram overlay and the element codec carry a machine-readable [Code]
// so callers can decide whether to retry, abort, or report.
//
// # Error Codes
//
//   - PARSE_ERROR: malformed JSON in an index, element or diagram file
//   - DANGLING_REFERENCE: an identifier could not be resolved in the project
//   - IO_ERROR: a file could not be opened, written or removed
//   - CONTRACT_VIOLATION: a programming error such as disposing twice
//   - NOT_FOUND, DUPLICATE_ID, ALREADY_EXISTS: index and filesystem lookups
//   - CORRUPT_PROJECT: the project index failed a sanity check
//   - UNKNOWN_CLASS: a class name has no registered builder
//   - NOT_OPEN, ALREADY_OPEN: diagram overlay state errors
//   - RENDER_ERROR, UNSUPPORTED_FORMAT: Graphviz export failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDanglingRef, "unknown identifier %q", raw)
//	if errors.Is(err, errors.ErrCodeDanglingRef) {
//	    // abort the load
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeParse       Code = "PARSE_ERROR"
	ErrCodeInvalidName Code = "INVALID_NAME"

	// Referential errors
	ErrCodeDanglingRef Code = "DANGLING_REFERENCE"
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeDuplicateID Code = "DUPLICATE_ID"

	// Filesystem errors
	ErrCodeIO            Code = "IO_ERROR"
	ErrCodeAlreadyExists Code = "ALREADY_EXISTS"
	ErrCodeCorrupt       Code = "CORRUPT_PROJECT"

	// State and programming errors
	ErrCodeContract     Code = "CONTRACT_VIOLATION"
	ErrCodeUnknownClass Code = "UNKNOWN_CLASS"
	ErrCodeNotOpen      Code = "NOT_OPEN"
	ErrCodeAlreadyOpen  Code = "ALREADY_OPEN"

	// Export errors
	ErrCodeRender            Code = "RENDER_ERROR"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
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
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
