package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/smithy/internal/config"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/fsutil"
	"github.com/opmodel/smithy/internal/recipe"
	"github.com/opmodel/smithy/internal/software"
)

// NewFormulaCmd creates the formula command group.
func NewFormulaCmd(g *GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "formula",
		Aliases: []string{"f"},
		Short:   "Formula operations",
		Long:    `Commands for listing, inspecting, installing and creating formulas.`,
	}

	cmd.AddCommand(
		NewFormulaListCmd(g),
		NewFormulaDisplayCmd(g),
		NewFormulaInstallCmd(g),
		NewFormulaNewCmd(g),
	)

	return cmd
}

// catalog returns the formula catalog over the configured directories.
func (g *GlobalConfig) catalog() (*recipe.Catalog, error) {
	dirs, err := g.Resolved.Directories()
	if err != nil {
		return nil, err
	}
	return recipe.NewCatalog(g.fs(), dirs)
}

// root returns the software root with ~ expanded.
func (g *GlobalConfig) root() (string, error) {
	return config.ExpandPath(g.Resolved.Root.Value)
}

func (g *GlobalConfig) registry() (*software.Registry, error) {
	root, err := g.root()
	if err != nil {
		return nil, err
	}
	return software.NewRegistry(g.fs(), root, g.Resolved.Arch.Value, g.Resolved.FileGroup.Value), nil
}

func (g *GlobalConfig) newPackage(name, version, build string) (*software.Package, error) {
	root, err := g.root()
	if err != nil {
		return nil, err
	}
	return software.NewPackage(software.Options{
		Name:      name,
		Version:   version,
		BuildName: build,
		Root:      root,
		Arch:      g.Resolved.Arch.Value,
		Group:     g.Resolved.FileGroup.Value,
	}), nil
}

// newFormula instantiates def, bound to pkg when pkg is non-nil.
func (g *GlobalConfig) newFormula(def *formula.Definition, pkg *software.Package, extra ...formula.Option) (*formula.Formula, error) {
	reg, err := g.registry()
	if err != nil {
		return nil, err
	}

	opts := []formula.Option{
		formula.WithExecutor(g.executor()),
		formula.WithRegistry(formula.SoftwareRegistry(reg)),
		formula.WithFilesystem(fsutil.New(g.fs(), nil)),
	}
	if pkg != nil {
		opts = append(opts, formula.WithPackage(pkg))
	}
	opts = append(opts, extra...)
	opts = append(opts, g.FormulaOptions...)

	return formula.New(def, opts...)
}
