package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/recipe"
)

// NewFormulaListCmd creates the formula list command.
func NewFormulaListCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available formulas",
		Long: `List the formulas found in the configured formula directories.

Directories are searched in order; a formula in an earlier directory
shadows one with the same name in a later directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withExitCode(runFormulaList(cmd, g))
		},
	}
}

func runFormulaList(cmd *cobra.Command, g *GlobalConfig) error {
	c, err := g.catalog()
	if err != nil {
		return err
	}
	entries, err := c.Entries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		output.Warn("no formulas found", "directories", strings.Join(c.Dirs(), ":"))
		return nil
	}

	tbl := output.NewTable("NAME", "VERSION", "HOMEPAGE", "FILE")
	for _, e := range entries {
		file, err := c.LoadFile(e.Path)
		if err != nil {
			output.Warn("skipping invalid formula", "file", e.Path, "error", err)
			continue
		}
		def, err := recipe.Compile(file)
		if err != nil {
			output.Warn("skipping invalid formula", "file", e.Path, "error", err)
			continue
		}
		f, err := g.newFormula(def, nil, formula.WithModuleTool(nil))
		if err != nil {
			output.Warn("skipping invalid formula", "file", e.Path, "error", err)
			continue
		}
		tbl.Row(e.Name, f.Version(), f.Homepage(), e.Path)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return err
}
