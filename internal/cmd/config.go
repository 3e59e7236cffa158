package cmd

import "github.com/spf13/cobra"

// NewConfigCmd groups the config subcommands.
func NewConfigCmd(g *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the smithy config file",
	}
	c.AddCommand(NewConfigInitCmd(g), NewConfigShowCmd(g))
	return c
}
