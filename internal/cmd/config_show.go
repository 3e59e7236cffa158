package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/opmodel/smithy/internal/config"
)

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd(g *GlobalConfig) *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Print the effective configuration as YAML after applying precedence:
flag > SMITHY_* environment > config file > default.

With --sources, print each value with the source it came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sources {
				return showSources(cmd, g.Resolved)
			}
			data, err := yaml.Marshal(g.Resolved.Effective())
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "Show where each value came from")

	return cmd
}

func showSources(cmd *cobra.Command, r *config.ResolvedConfig) error {
	for _, v := range r.Values() {
		source := string(v.Source)
		if source == "" {
			source = "unset"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-40s (%s)\n", v.Key, v.Value, source); err != nil {
			return err
		}
	}
	return nil
}
