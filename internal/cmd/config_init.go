package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/smithy/internal/config"
	oerrors "github.com/opmodel/smithy/internal/errors"
	"github.com/opmodel/smithy/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(g *GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write config.yaml with the default root, arch and formula directory.

The file goes to ~/.smithy/config.yaml unless --config or SMITHY_CONFIG
names another location.`,
		Example: `  smithy config init
  smithy config init --config /etc/smithy/config.yaml --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, g, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing config file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, g *GlobalConfig, force bool) error {
	path, err := config.ExpandPath(g.Resolved.ConfigPath.Value)
	if err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
	}

	exists, err := config.Exists(path)
	if err != nil {
		return withExitCode(fmt.Errorf("checking config file: %w", err))
	}
	if exists && !force {
		return withExitCode(oerrors.NewValidationError(
			"a config file already exists", path, "Pass --force to replace it with the defaults."))
	}

	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return withExitCode(oerrors.Wrap(oerrors.ErrPermission, fmt.Sprintf("could not write %s: %v", path, err)))
	}

	output.NoticeSuccess("Configuration initialized at " + path)
	return nil
}
