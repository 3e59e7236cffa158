package formula_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/smithy/internal/envmodule"
	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/runner/runnertest"
)

func TestInitializeModules_ConflictingDeclarations(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Modules("PrgEnv-gnu")
		d.ModuleCommands("load dot")
	})
	// declaring both is accepted; resolution fails
	f, _ := newFormula(t, def)

	err := f.InitializeModules(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrConfiguration))
	assert.Contains(t, err.Error(), "mutually exclusive module declarations")
}

func TestInitializeModules_MalformedValues(t *testing.T) {
	tests := []struct {
		name    string
		build   func(d *formula.Declarations)
		wantMsg string
	}{
		{
			name:    "module_commands not a sequence",
			build:   func(d *formula.Declarations) { d.Set(formula.AttrModuleCommands, "load dot") },
			wantMsg: "module_commands must be an ordered sequence",
		},
		{
			name:    "modules not a list",
			build:   func(d *formula.Declarations) { d.Set(formula.AttrModules, map[string]any{"gcc": "4.7"}) },
			wantMsg: "modules must be a list of module names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newFormula(t, define(tt.build))
			err := f.InitializeModules(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, oerrors.ErrConfiguration))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestInitializeModules_Unavailable(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Modules("PrgEnv-gnu")
	})
	f, e := newFormula(t, def)

	require.NoError(t, f.InitializeModules(context.Background()))
	assert.Equal(t, envmodule.Unavailable, f.ModuleState())
	assert.Empty(t, e.exec.Scripts())

	require.NoError(t, f.System(context.Background(), "make"))
	assert.Equal(t, []string{"make"}, e.exec.Scripts())
	assert.Equal(t, "", f.ModuleEnvironmentVariable(context.Background(), "dot", "PATH"))
	assert.False(t, f.ModuleIsAvailable(context.Background(), "dot"))
}

func TestInitializeModules_PurgeAndLoad(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Modules("PrgEnv-gnu", "dot")
	})
	f, e := newFormula(t, def, formula.WithModuleTool(moduleTool))
	e.exec.
		On("modulecmd sh purge", runnertest.Response{Stdout: "unset LOADEDMODULES;\n"}).
		On("modulecmd sh load", runnertest.Response{Stdout: "export PATH=/opt/gcc/bin;\n"})

	require.NoError(t, f.InitializeModules(context.Background()))
	assert.Equal(t, envmodule.PurgeAndLoad, f.ModuleState())

	script := f.ModuleSetup()
	assert.Equal(t, []string{
		"modulecmd sh purge 2>/dev/null",
		"modulecmd sh load PrgEnv-gnu dot",
	}, script.Commands)
	assert.Equal(t, "unset LOADEDMODULES; export PATH=/opt/gcc/bin; ", script.Setup)

	require.NoError(t, f.System(context.Background(), "make"))
	require.NoError(t, f.SystemNoModules(context.Background(), "hostname"))

	scripts := e.exec.Scripts()
	assert.Equal(t, "modulecmd sh purge 2>/dev/null", scripts[0])
	assert.Equal(t, "unset LOADEDMODULES; modulecmd sh load PrgEnv-gnu dot", scripts[1])
	assert.Equal(t, "unset LOADEDMODULES; export PATH=/opt/gcc/bin; make", scripts[2])
	assert.Equal(t, "hostname", scripts[3])
}

func TestInitializeModules_CommandSequence(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.ModuleCommandsFunc(func(f *formula.Formula) ([]string, error) {
			cmds := []string{"unload PrgEnv-cray"}
			if f.ModuleIsAvailable(f.Context(), "dot") {
				cmds = append(cmds, "load dot")
			}
			return append(cmds, "load PrgEnv-gnu"), nil
		})
	})
	f, e := newFormula(t, def, formula.WithModuleTool(moduleTool))
	e.exec.On("avail dot", runnertest.Response{Stdout: "dot  null  PrgEnv-gnu/4.1.40(default)\n"})

	require.NoError(t, f.InitializeModules(context.Background()))
	assert.Equal(t, envmodule.CommandSequence, f.ModuleState())
	assert.Equal(t, []string{
		"modulecmd sh unload PrgEnv-cray",
		"modulecmd sh load dot",
		"modulecmd sh load PrgEnv-gnu",
	}, f.ModuleSetup().Commands)
}

func TestInitializeModules_ReevaluatesBlocks(t *testing.T) {
	calls := 0
	def := define(func(d *formula.Declarations) {
		d.ModulesFunc(func(*formula.Formula) ([]string, error) {
			calls++
			return []string{"PrgEnv-gnu"}, nil
		})
	})
	f, _ := newFormula(t, def, formula.WithModuleTool(moduleTool))

	require.NoError(t, f.InitializeModules(context.Background()))
	require.NoError(t, f.InitializeModules(context.Background()))
	assert.Equal(t, 2, calls)

	_, err := f.Modules()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInitializeModules_ToolFailure(t *testing.T) {
	def := define(func(d *formula.Declarations) {
		d.Modules("PrgEnv-gnu")
	})
	f, e := newFormula(t, def, formula.WithModuleTool(moduleTool))
	e.exec.On("load PrgEnv-gnu", runnertest.Response{ExitCode: 1})

	err := f.InitializeModules(context.Background())
	assert.True(t, errors.Is(err, oerrors.ErrCommandFailed))
	assert.Equal(t, "", f.ModuleSetup().Setup)
}

func TestModuleEnvironmentVariable(t *testing.T) {
	f, e := newFormula(t, define(nil), formula.WithModuleTool(moduleTool))
	e.exec.
		On("display dot", runnertest.Response{Stdout: "-------\n/opt/modulefiles/dot:\n\nprepend-path\t PATH .\n-------\n"}).
		On("display broken", runnertest.Response{ExitCode: 1})

	ctx := context.Background()
	assert.Equal(t, ".", f.ModuleEnvironmentVariable(ctx, "dot", "PATH"))
	assert.Equal(t, "", f.ModuleEnvironmentVariable(ctx, "dot", "MANPATH"))
	assert.Equal(t, "", f.ModuleEnvironmentVariable(ctx, "broken", "PATH"))
}
