package formula

import (
	"context"
	"errors"

	"github.com/opmodel/smithy/internal/envmodule"
)

// InitializeModules re-resolves modules and module_commands and recomputes
// the module setup script. Commands run afterwards in Normal mode are
// prefixed with the setup the module tool emitted.
func (f *Formula) InitializeModules(ctx context.Context) error {
	defer f.withContext(ctx)()

	f.invalidate(AttrModules, AttrModuleCommands)
	f.planner.Invalidate()

	modulesVal, err := f.Attr(AttrModules)
	if err != nil {
		return err
	}
	commandsVal, err := f.Attr(AttrModuleCommands)
	if err != nil {
		return err
	}

	if present(modulesVal) && present(commandsVal) {
		return f.configErrorf("mutually exclusive module declarations: declare modules or module_commands, not both")
	}

	commands, ok := toStringSlice(commandsVal)
	if !ok && present(commandsVal) {
		return f.configErrorf("module_commands must be an ordered sequence, got %T", commandsVal)
	}
	modules, ok := toStringSlice(modulesVal)
	if !ok && present(modulesVal) {
		return f.configErrorf("modules must be a list of module names, got %T", modulesVal)
	}

	if err := f.planner.Initialize(ctx, modules, commands); err != nil {
		if errors.Is(err, envmodule.ErrConflictingDeclarations) {
			return f.configErrorf("mutually exclusive module declarations")
		}
		return err
	}
	return nil
}
