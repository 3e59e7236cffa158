package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// DefaultShell is the shell used to interpret command lines.
const DefaultShell = "/bin/sh"

// Request describes a single command line to execute.
type Request struct {
	// Script is the full shell command line, including any module setup prefix.
	Script string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// Stdout receives the command's standard output.
	Stdout io.Writer

	// Stderr receives the command's standard error.
	Stderr io.Writer
}

// Executor runs a command line and reports its exit status.
//
// A non-nil error means the command could not be started or waited for; the
// returned exit code is then meaningless. Signal termination is reported as a
// nonzero exit code, not an error.
type Executor interface {
	Execute(ctx context.Context, req Request) (int, error)
}

// ShellExecutor runs command lines through a POSIX shell.
type ShellExecutor struct {
	// Shell is the shell binary. If empty, DefaultShell is used.
	Shell string
}

// NewShellExecutor creates a ShellExecutor using DefaultShell.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{Shell: DefaultShell}
}

// Execute implements Executor.
func (e *ShellExecutor) Execute(ctx context.Context, req Request) (int, error) {
	cmd := exec.CommandContext(ctx, e.shell(), "-c", req.Script)
	cmd.Dir = req.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = req.Stdout
	cmd.Stderr = req.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code == 0 {
				// Killed by a signal: ExitCode reports -1, never 0, but be explicit.
				code = -1
			}
			return code, nil
		}
		return -1, err
	}

	return 0, nil
}

func (e *ShellExecutor) shell() string {
	if e.Shell != "" {
		return e.Shell
	}
	return DefaultShell
}
