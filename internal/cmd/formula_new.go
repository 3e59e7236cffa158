package cmd

import (
	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/templates"
)

// NewFormulaNewCmd creates the formula new command.
func NewFormulaNewCmd(g *GlobalConfig) *cobra.Command {
	var opts templates.GenerateOptions

	cmd := &cobra.Command{
		Use:   "new NAME --url URL",
		Short: "Create a formula skeleton",
		Long: `Write a new formula file with a configure/make install procedure and a
default modulefile.

The file is written to the first formula directory unless --dir is given.

Examples:
  smithy formula new zlib --url https://zlib.net/zlib-1.2.11.tar.gz
  smithy formula new zlib --url https://zlib.net/zlib-1.2.11.tar.gz --format cue`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return withExitCode(runFormulaNew(g, opts))
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Source archive URL (required)")
	cmd.Flags().StringVar(&opts.Homepage, "homepage", "", "Project homepage (default: derived from --url)")
	cmd.Flags().StringVar(&opts.Format, "format", templates.DefaultFormat, "Formula file format: yaml or cue")
	cmd.Flags().StringVar(&opts.TargetDir, "dir", "", "Directory to write the formula to")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing formula file")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runFormulaNew(g *GlobalConfig, opts templates.GenerateOptions) error {
	if opts.TargetDir == "" {
		dirs, err := g.Resolved.Directories()
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			return oerrors.NewValidationError("no formula directory configured", "", "Pass --dir or set formulaDirectories in the config file.")
		}
		opts.TargetDir = dirs[0]
	}

	result, err := templates.NewGenerator(g.fs(), opts).Generate()
	if err != nil {
		return err
	}

	output.NoticeSuccess("Created " + result.Path)
	return nil
}
