// Package errors provides structured error types for the progression CLI.
//
// The library packages return plain sentinel errors wrapped with %w. This
// package adds machine-readable codes on top so the CLI can print a short
// user-facing message and pick an exit status without string matching.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: bad definitions, strategies or formats
//   - *_NOT_FOUND: missing files or nodes
//   - NETWORK_*: cache backend failures
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidStrategy) {
//	    // Handle validation error
//	}
//
//	// Attach a code to an error from a library package
//	err = errors.Classify(err)
package errors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/matzehuels/progression/pkg/cache"
	"github.com/matzehuels/progression/pkg/dag"
	"github.com/matzehuels/progression/pkg/definition"
	"github.com/matzehuels/progression/pkg/export"
	"github.com/matzehuels/progression/pkg/progression"
	"github.com/matzehuels/progression/pkg/strategy"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidGraph      Code = "INVALID_GRAPH"
	ErrCodeCyclicGraph       Code = "CYCLIC_GRAPH"
	ErrCodeInvalidStrategy   Code = "INVALID_STRATEGY"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidDefinition Code = "INVALID_DEFINITION"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeUnknownNode  Code = "UNKNOWN_NODE"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// classes maps library sentinels to codes. Order matters: the first match
// wins, so more specific sentinels come first.
var classes = []struct {
	sentinel error
	code     Code
	message  string
}{
	{dag.ErrCycle, ErrCodeCyclicGraph, "the dependency graph has a cycle"},
	{dag.ErrUnknownNode, ErrCodeUnknownNode, "reference to an unknown node"},
	{dag.ErrEmptyChoice, ErrCodeInvalidGraph, "a choice has no options"},
	{dag.ErrNotUnit, ErrCodeInvalidGraph, "the root must be a unit"},
	{dag.ErrDuplicateKey, ErrCodeInvalidDefinition, "duplicate node key"},
	{dag.ErrEmptyKey, ErrCodeInvalidDefinition, "node without a key"},
	{definition.ErrInvalid, ErrCodeInvalidDefinition, "invalid definition file"},
	{definition.ErrUnknownFormat, ErrCodeInvalidFormat, "unsupported definition format"},
	{strategy.ErrUnknownStrategy, ErrCodeInvalidStrategy, "unknown strategy"},
	{strategy.ErrNotPassSafe, ErrCodeInvalidStrategy, "strategy not allowed for the usage pass"},
	{progression.ErrStrategyContract, ErrCodeInvalidStrategy, "a strategy broke its contract"},
	{export.ErrUnknownFormat, ErrCodeInvalidFormat, "unsupported export format"},
	{export.ErrClipboardUnsupported, ErrCodeUnsupported, "no clipboard available"},
	{fs.ErrNotExist, ErrCodeFileNotFound, "file not found"},
	{cache.ErrBackend, ErrCodeNetwork, "cache backend unavailable"},
	{context.DeadlineExceeded, ErrCodeTimeout, "operation timed out"},
}

// Classify attaches a code to err based on the sentinel it wraps. Errors
// that already carry a code are returned unchanged; unrecognized errors get
// ErrCodeInternal. Classify(nil) returns nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	for _, c := range classes {
		if errors.Is(err, c.sentinel) {
			return Wrap(c.code, err, "%s", c.message)
		}
	}
	return Wrap(ErrCodeInternal, err, "unexpected error")
}
