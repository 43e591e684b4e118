// Package errors provides structured error types for the dockgrid layout engine.
//
// Every failure returned by a layout operation carries a machine-readable
// [Code] so callers (CLI, HTTP API, embedding applications) can react to the
// category of failure without parsing messages.
//
// # Error Codes
//
//   - DUPLICATE_PART_ID: a part, view or activity id is already taken
//   - UNKNOWN_REFERENCE: a part, view, activity, slot or panel does not exist
//   - INVALID_RATIO: a split or panel ratio is outside (0,1)
//   - STRUCTURAL_INVARIANT: the operation would leave the layout inconsistent
//   - INVALID_INPUT / INVALID_FORMAT: malformed caller input or serialized data
//   - INTERNAL_ERROR: unexpected internal failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownReference, "part %q not found", id)
//	if errors.Is(err, errors.ErrCodeUnknownReference) {
//	    // Handle missing reference
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode layout")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout validation errors
	ErrCodeDuplicatePartID     Code = "DUPLICATE_PART_ID"
	ErrCodeUnknownReference    Code = "UNKNOWN_REFERENCE"
	ErrCodeInvalidRatio        Code = "INVALID_RATIO"
	ErrCodeStructuralInvariant Code = "STRUCTURAL_INVARIANT"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

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

// Shorthand constructors for the layout taxonomy.

// DuplicateID reports that kind/id is already present in the snapshot.
func DuplicateID(kind, id string) *Error {
	return New(ErrCodeDuplicatePartID, "%s %q already exists", kind, id)
}

// UnknownReference reports that kind/id does not exist.
func UnknownReference(kind, id string) *Error {
	return New(ErrCodeUnknownReference, "%s %q not found", kind, id)
}

// Structural reports an operation that would break a layout invariant.
func Structural(format string, args ...any) *Error {
	return New(ErrCodeStructuralInvariant, format, args...)
}
