package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/fsutil"
	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/software"
)

type installOptions struct {
	formulaName  string
	noModulefile bool
}

// NewFormulaInstallCmd creates the formula install command.
func NewFormulaInstallCmd(g *GlobalConfig) *cobra.Command {
	var opts installOptions

	cmd := &cobra.Command{
		Use:   "install NAME/VERSION/BUILD",
		Short: "Build and install a package from its formula",
		Long: `Build and install a package into the software root.

The install:
  1. checks the build name against the formula's supported build names
  2. binds every declared dependency to an installed package
  3. loads the declared modules and runs the install steps, once per
     software root (the configured root, then any additional roots)
  4. writes the modulefile, when the formula declares one
  5. makes the install group writable and assigns the configured group

Examples:
  smithy formula install zlib/1.2.11/gnu4.7
  smithy formula install hdf5-parallel/1.8.10/gnu --formula hdf5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFormulaInstall(cmd.Context(), g, args[0], opts)
			if err == nil {
				return nil
			}
			// Report here so the package stays attached to the failure.
			code := ExitCodeFromError(err)
			output.Error("install failed", "package", args[0], "reason", ExitCodeName(code))
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return &ExitError{Err: err, Code: code, Printed: true}
		},
	}

	cmd.Flags().StringVar(&opts.formulaName, "formula", "", "Formula to build with (default: the package name)")
	cmd.Flags().BoolVar(&opts.noModulefile, "no-modulefile", false, "Skip writing the modulefile")

	return cmd
}

func runFormulaInstall(ctx context.Context, g *GlobalConfig, spec string, opts installOptions) error {
	name, version, build, err := software.ParseSpec(spec)
	if err != nil {
		return oerrors.NewValidationError(err.Error(), spec, "")
	}
	if version == "" || build == "" {
		return oerrors.NewValidationError(
			fmt.Sprintf("package spec %q is incomplete", spec),
			"",
			"Give the package as NAME/VERSION/BUILD, e.g. zlib/1.2.11/gnu.",
		)
	}

	formulaName := opts.formulaName
	if formulaName == "" {
		formulaName = name
	}

	c, err := g.catalog()
	if err != nil {
		return err
	}
	_, def, err := c.Load(formulaName)
	if err != nil {
		return err
	}

	pkg, err := g.newPackage(name, version, build)
	if err != nil {
		return err
	}
	f, err := g.newFormula(def, pkg)
	if err != nil {
		return err
	}

	output.Notice(fmt.Sprintf("Installing %s with formula %s", pkg, def.Name()))
	output.Debug("formula", "file", def.File(), "prefix", pkg.Prefix())

	if err := f.CheckSupportedBuildNames(); err != nil {
		return err
	}
	if err := f.CheckDependencies(); err != nil {
		return err
	}
	if err := printParams(f); err != nil {
		return err
	}

	fs := fsutil.New(g.fs(), nil)
	if err := fs.EnsureDir(pkg.Prefix()); err != nil {
		return oerrors.NewPermissionError(
			fmt.Sprintf("could not create prefix: %v", err),
			map[string]string{"prefix": pkg.Prefix()},
			"Check that the software root exists and is writable.",
		)
	}

	if err := f.RunInstall(ctx); err != nil {
		return err
	}

	if !opts.noModulefile {
		if _, err := f.CreateModulefile(ctx); err != nil {
			return err
		}
	}

	if err := f.FixPermissions(); err != nil {
		return err
	}

	output.NoticeSuccess("Installed " + pkg.Prefix())
	return nil
}

func printParams(f *formula.Formula) error {
	names := f.Definition().Params()
	if len(names) == 0 {
		return nil
	}
	params := make(map[string]any, len(names))
	for _, name := range names {
		v, err := f.Param(name)
		if err != nil {
			return err
		}
		params[name] = v
	}
	output.Println(output.RenderParamsTable(params))
	return nil
}
