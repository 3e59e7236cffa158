package formula

import (
	"context"
	"fmt"

	"github.com/opmodel/smithy/internal/output"
)

// RunInstall initializes modules once, runs the install procedure at the
// primary prefix, then once more under each additional software root, in
// declaration order. The package root and prefix are restored afterwards,
// also when an install fails. The first failure is returned; roots already
// installed are left in place.
func (f *Formula) RunInstall(ctx context.Context) error {
	defer f.withContext(ctx)()

	if err := f.InitializeModules(ctx); err != nil {
		return err
	}

	roots, err := f.AdditionalSoftwareRoots()
	if err != nil {
		return err
	}
	roots = nonEmpty(roots)
	if len(roots) > 0 && f.pkg == nil {
		return f.configErrorf("additional_software_roots requires a package")
	}

	if err := f.runInstallMethod(ctx); err != nil {
		return err
	}
	if len(roots) == 0 {
		return nil
	}

	originalRoot := f.pkg.Root()
	defer func() {
		f.pkg.SetRoot(originalRoot)
		f.rebindPrefix(f.pkg.Prefix())
	}()

	for _, root := range roots {
		f.pkg.SetRoot(root)
		f.rebindPrefix(f.pkg.Prefix())
		output.Notice("Installing to additional location " + f.prefix)
		if err := f.runInstallMethod(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formula) runInstallMethod(ctx context.Context) error {
	output.Debug("running install", "formula", f.def.name, "prefix", f.prefix)
	if err := f.def.install(ctx, f); err != nil {
		return fmt.Errorf("installing %s to %s: %w", f.name, f.prefix, err)
	}
	output.NoticeSuccess("SUCCESS " + f.prefix)
	return nil
}

func nonEmpty(list []string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
