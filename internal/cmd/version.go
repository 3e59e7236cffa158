package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/smithy/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the smithy version, commit, build date and the CUE SDK
release formula files are validated with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return nil
		},
	}
	c.Flags().BoolVar(&short, "short", false, "Print only the version")
	return c
}
