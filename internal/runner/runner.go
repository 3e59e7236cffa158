package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/opmodel/smithy/internal/output"
)

// Mode selects whether a command runs inside the module environment.
type Mode int

const (
	// Normal prefixes the command with the current module setup.
	Normal Mode = iota

	// Bypass runs the raw command in the host environment.
	Bypass
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Bypass:
		return "bypass"
	default:
		return "unknown"
	}
}

// SetupSource provides the accumulated module setup text that Normal mode
// commands are prefixed with.
type SetupSource interface {
	Setup() string
}

// Diagnostics provides the context attached to command failures.
type Diagnostics interface {
	FormulaFile() string
	BuildDirectory() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithSetup sets the module setup source for Normal mode commands.
func WithSetup(s SetupSource) Option {
	return func(r *Runner) {
		r.setup = s
	}
}

// WithDiagnostics sets the failure context source.
func WithDiagnostics(d Diagnostics) Option {
	return func(r *Runner) {
		r.diag = d
	}
}

// WithOutput sets the writers commands stream to.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// Runner executes command lines with fail-fast semantics.
type Runner struct {
	executor Executor
	setup    SetupSource
	diag     Diagnostics
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Runner around executor. A nil executor uses a ShellExecutor.
func New(executor Executor, opts ...Option) *Runner {
	if executor == nil {
		executor = NewShellExecutor()
	}
	r := &Runner{
		executor: executor,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run echoes and executes args joined into one command line. A nonzero exit
// status returns a *CommandExecutionError.
func (r *Runner) Run(ctx context.Context, mode Mode, args ...string) error {
	line := strings.Join(args, " ")
	output.Notice(line)

	code, err := r.executor.Execute(ctx, Request{
		Script: r.script(mode, line),
		Dir:    r.workDir(),
		Stdout: r.stdout,
		Stderr: r.stderr,
	})
	if err != nil || code != 0 {
		return r.fail(line, code, err)
	}
	return nil
}

// Output executes args without echoing and returns captured stdout.
// Failures are reported the same way as Run.
func (r *Runner) Output(ctx context.Context, mode Mode, args ...string) ([]byte, error) {
	line := strings.Join(args, " ")
	output.Debug("capturing command output", "command", line, "mode", mode)

	var stdout bytes.Buffer
	code, err := r.executor.Execute(ctx, Request{
		Script: r.script(mode, line),
		Dir:    r.workDir(),
		Stdout: &stdout,
		Stderr: r.stderr,
	})
	if err != nil || code != 0 {
		return stdout.Bytes(), r.fail(line, code, err)
	}
	return stdout.Bytes(), nil
}

func (r *Runner) script(mode Mode, line string) string {
	if mode == Bypass || r.setup == nil {
		return line
	}
	setup := strings.TrimSpace(r.setup.Setup())
	if setup == "" {
		return line
	}
	return setup + " " + line
}

// workDir returns the build directory when it exists on disk.
func (r *Runner) workDir() string {
	if r.diag == nil {
		return ""
	}
	dir := r.diag.BuildDirectory()
	if dir == "" {
		return ""
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

func (r *Runner) fail(line string, code int, cause error) error {
	// Flush before reporting so the error is not interleaved with partial output.
	flush(r.stdout)
	flush(r.stderr)

	if cause != nil && code == 0 {
		code = -1
	}

	e := &CommandExecutionError{
		Command:  line,
		ExitCode: code,
		Cause:    cause,
	}
	if r.diag != nil {
		e.FormulaFile = r.diag.FormulaFile()
		e.BuildDirectory = r.diag.BuildDirectory()
	}
	return e
}

func flush(w io.Writer) {
	switch f := w.(type) {
	case interface{ Sync() error }:
		_ = f.Sync()
	case interface{ Flush() error }:
		_ = f.Flush()
	}
}
