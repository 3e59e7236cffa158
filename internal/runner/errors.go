package runner

import (
	"fmt"
	"strings"

	oerrors "github.com/opmodel/smithy/internal/errors"
)

// CommandExecutionError indicates an external command exited with a nonzero
// status, was killed by a signal, or could not be started.
type CommandExecutionError struct {
	// Command is the command line as echoed to the user (without module setup).
	Command string

	// ExitCode is the exit status. -1 when the process was signalled or never ran.
	ExitCode int

	// FormulaFile is the file that defined the formula running the command.
	FormulaFile string

	// BuildDirectory is the build (source) directory of the current package.
	BuildDirectory string

	// Cause is the start/wait error, if any.
	Cause error
}

func (e *CommandExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "The last command exited with status: %d\n", e.ExitCode)
	fmt.Fprintf(&b, "  Command: %s\n", e.Command)
	fmt.Fprintf(&b, "  Formula: %s\n", orUnknown(e.FormulaFile))
	fmt.Fprintf(&b, "  Build Directory: %s", orUnknown(e.BuildDirectory))
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  Cause: %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes ErrCommandFailed and the underlying cause.
func (e *CommandExecutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{oerrors.ErrCommandFailed}
	}
	return []error{oerrors.ErrCommandFailed, e.Cause}
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
