// Package errors provides sentinel errors and structured error details for smithy.
package errors

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DetailError is a user-facing failure with enough context to act on it
// without re-running: what kind of failure, where, and what to do next.
type DetailError struct {
	// Type is the failure kind, e.g. "validation failed".
	Type string

	// Message describes this failure.
	Message string

	// Location is the file or path concerned, if any.
	Location string

	// Context holds extra labelled values, printed sorted by label.
	Context map[string]string

	// Hint suggests a fix.
	Hint string

	// Cause is the sentinel or underlying error.
	Cause error
}

// Error renders the failure as an indented block:
//
//	Error: <type>
//	  Location: <location>
//	  <label>: <value>
//
//	  <message>
//
//	Hint: <hint>
func (e *DetailError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Error: %s\n", e.Type)
	if e.Location != "" {
		fmt.Fprintf(&b, "  Location: %s\n", e.Location)
	}
	for _, label := range slices.Sorted(maps.Keys(e.Context)) {
		fmt.Fprintf(&b, "  %s: %s\n", label, e.Context[label])
	}
	fmt.Fprintf(&b, "\n  %s\n", e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s\n", e.Hint)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

func detail(kind string, cause error, message, location, hint string) *DetailError {
	return &DetailError{
		Type:     kind,
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    cause,
	}
}

// NewValidationError reports an invalid formula or config file.
func NewValidationError(message, location, hint string) error {
	return detail("validation failed", ErrValidation, message, location, hint)
}

// NewNotFoundError reports a missing formula, package or file.
func NewNotFoundError(message, location, hint string) error {
	return detail("not found", ErrNotFound, message, location, hint)
}

// NewPermissionError reports a path that could not be created or re-permissioned.
func NewPermissionError(message string, context map[string]string, hint string) error {
	e := detail("permission denied", ErrPermission, message, "", hint)
	e.Context = context
	return e
}

// Wrap attaches message to a sentinel.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
