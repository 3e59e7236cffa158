package envmodule

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/runner"
)

// ErrConflictingDeclarations is returned when both module names and module
// commands are given to the planner.
var ErrConflictingDeclarations = errors.New("mutually exclusive module declarations")

// State is the planner state.
type State int

const (
	// Unavailable means no module tool was detected; every operation is a no-op.
	Unavailable State = iota

	// Empty means the tool is available but nothing was declared.
	Empty

	// PurgeAndLoad purges all loaded modules then loads the declared names.
	PurgeAndLoad

	// CommandSequence runs each declared module command in order.
	CommandSequence
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unavailable:
		return "unavailable"
	case Empty:
		return "empty"
	case PurgeAndLoad:
		return "purge-and-load"
	case CommandSequence:
		return "command-sequence"
	default:
		return "unknown"
	}
}

// Script is the module setup computed for one install run.
type Script struct {
	// Commands are the module tool invocations, in execution order.
	Commands []string

	// Setup is the shell text the tool emitted, concatenated. Normal mode
	// commands are prefixed with it.
	Setup string
}

// CommandRunner is the subset of runner.Runner the planner needs.
type CommandRunner interface {
	Run(ctx context.Context, mode runner.Mode, args ...string) error
	Output(ctx context.Context, mode runner.Mode, args ...string) ([]byte, error)
}

// Planner owns the module setup script of one formula instance.
type Planner struct {
	tool   *Tool
	runner CommandRunner
	state  State
	script Script
}

// NewPlanner creates a planner. A nil tool yields an Unavailable planner.
func NewPlanner(tool *Tool, r CommandRunner) *Planner {
	p := &Planner{tool: tool, runner: r}
	p.Invalidate()
	return p
}

// Available reports whether a module tool was detected.
func (p *Planner) Available() bool {
	return p.tool != nil
}

// Tool returns the detected module tool, or nil.
func (p *Planner) Tool() *Tool {
	return p.tool
}

// State returns the current planner state.
func (p *Planner) State() State {
	return p.state
}

// Script returns a copy of the current script.
func (p *Planner) Script() Script {
	return Script{
		Commands: slices.Clone(p.script.Commands),
		Setup:    p.script.Setup,
	}
}

// Setup returns the accumulated setup text. It implements runner.SetupSource.
func (p *Planner) Setup() string {
	return p.script.Setup
}

// Invalidate discards the current script.
func (p *Planner) Invalidate() {
	p.script = Script{}
	if p.tool == nil {
		p.state = Unavailable
	} else {
		p.state = Empty
	}
}

// Plan computes the state and module tool commands for the declarations
// without running anything.
func (p *Planner) Plan(modules, commands []string) (State, []string, error) {
	if p.tool == nil {
		return Unavailable, nil, nil
	}
	if len(modules) > 0 && len(commands) > 0 {
		return Unavailable, nil, ErrConflictingDeclarations
	}

	switch {
	case len(modules) > 0:
		return PurgeAndLoad, []string{
			p.tool.Command("purge") + " 2>/dev/null",
			p.tool.Command("load", strings.Join(modules, " ")),
		}, nil
	case len(commands) > 0:
		cmds := make([]string, 0, len(commands))
		for _, c := range commands {
			cmds = append(cmds, p.tool.Command(c))
		}
		return CommandSequence, cmds, nil
	default:
		return Empty, nil, nil
	}
}

// Initialize discards the previous script and recomputes it from the
// declarations. Each module tool invocation runs in the environment
// accumulated so far and its output is appended to the setup.
func (p *Planner) Initialize(ctx context.Context, modules, commands []string) error {
	p.Invalidate()

	state, cmds, err := p.Plan(modules, commands)
	if err != nil {
		return err
	}
	if state == Unavailable {
		output.Debug("module tool unavailable, skipping module setup")
		return nil
	}

	for _, cmd := range cmds {
		out, err := p.runner.Output(ctx, runner.Bypass, p.prefixed(cmd))
		if err != nil {
			p.Invalidate()
			return fmt.Errorf("module setup %q: %w", cmd, err)
		}
		p.script.Commands = append(p.script.Commands, cmd)
		if s := strings.TrimSpace(string(out)); s != "" {
			p.script.Setup += s + " "
		}
	}
	p.state = state

	output.Debug("module setup initialized", "state", state, "commands", len(cmds))
	return nil
}

// List runs "module list" in the current module environment.
func (p *Planner) List(ctx context.Context) error {
	if p.tool == nil {
		return nil
	}
	output.Notice("module list")
	return p.runner.Run(ctx, runner.Bypass, p.prefixed(p.tool.Command("list")), "2>&1")
}

// IsAvailable reports whether the module tool can find module. It returns
// false when the tool is unavailable or the query fails.
func (p *Planner) IsAvailable(ctx context.Context, module string) bool {
	if p.tool == nil {
		return false
	}
	out, err := p.runner.Output(ctx, runner.Bypass, p.prefixed(p.tool.Command("avail", module)), "2>&1")
	if err != nil {
		output.Debug("module avail failed", "module", module, "error", err)
		return false
	}
	return availContains(string(out), module)
}

// EnvironmentVariable returns the value module sets for variable, according
// to the module tool's display output. Any failure yields "".
func (p *Planner) EnvironmentVariable(ctx context.Context, module, variable string) string {
	if p.tool == nil {
		return ""
	}
	out, err := p.runner.Output(ctx, runner.Bypass, p.prefixed(p.tool.Command("display", module)), "2>&1")
	if err != nil {
		output.Debug("module display failed", "module", module, "error", err)
		if len(out) == 0 {
			return ""
		}
	}
	return ParseDisplayVariable(string(out), variable)
}

func (p *Planner) prefixed(cmd string) string {
	if p.script.Setup == "" {
		return cmd
	}
	return p.script.Setup + cmd
}
