package cmd

import (
	"errors"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command already reported Err to the user.
	Printed bool
}

func (e *ExitError) Error() string { return e.Err.Error() }

// Unwrap returns the command error.
func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError pairs err with code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// sentinelCodes is checked in order; the first sentinel err matches decides the code.
var sentinelCodes = []struct {
	sentinel error
	code     int
}{
	{oerrors.ErrValidation, ExitValidationError},
	{oerrors.ErrConfiguration, ExitValidationError},
	{oerrors.ErrCommandFailed, ExitCommandFailed},
	{oerrors.ErrPermission, ExitPermissionDenied},
	{oerrors.ErrNotFound, ExitNotFound},
	{oerrors.ErrDependency, ExitDependencyError},
	{oerrors.ErrUnsupportedBuild, ExitUnsupportedBuild},
}

// ExitCodeFromError maps err to an exit code. An ExitError keeps its own code.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.sentinel) {
			return sc.code
		}
	}
	return ExitGeneralError
}

func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return NewExitError(err, ExitCodeFromError(err))
}
