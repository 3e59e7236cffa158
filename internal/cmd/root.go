package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/opmodel/smithy/internal/config"
	"github.com/opmodel/smithy/internal/formula"
	"github.com/opmodel/smithy/internal/output"
	"github.com/opmodel/smithy/internal/runner"
)

// GlobalConfig holds CLI-wide state resolved during PersistentPreRunE and
// passed into every sub-command constructor.
type GlobalConfig struct {
	// Resolved is the effective configuration.
	Resolved *config.ResolvedConfig

	// Verbose enables debug logging.
	Verbose bool

	// FS is the filesystem formulas, packages and modulefiles live on.
	// Nil means the OS filesystem.
	FS afero.Fs

	// Executor runs build commands. Nil means a shell executor.
	Executor runner.Executor

	// FormulaOptions are appended to every formula instance's options.
	FormulaOptions []formula.Option

	configFlag     string
	rootFlag       string
	archFlag       string
	timestampsFlag bool
}

func (g *GlobalConfig) fs() afero.Fs {
	if g.FS == nil {
		return afero.NewOsFs()
	}
	return g.FS
}

func (g *GlobalConfig) executor() runner.Executor {
	if g.Executor == nil {
		return runner.NewShellExecutor()
	}
	return g.Executor
}

// NewRootCmd creates the root command for the smithy CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&GlobalConfig{})
}

func newRootCmd(g *GlobalConfig) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "smithy",
		Short: "Build and install scientific software from formulas",
		Long: `smithy builds software from formulas into a shared software root.

Packages are installed to <root>/<arch>/<name>/<version>/<build> and
described to users by generated environment modulefiles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd, g)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configFlag, "config", "", "Path to config file (env: SMITHY_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&g.rootFlag, "root", "", "Software root (env: SMITHY_ROOT)")
	rootCmd.PersistentFlags().StringVar(&g.archFlag, "arch", "", "Architecture directory below the root (env: SMITHY_ARCH)")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&g.timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewFormulaCmd(g))
	rootCmd.AddCommand(NewConfigCmd(g))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals resolves configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, g *GlobalConfig) error {
	// Logging first so resolution is visible with --verbose.
	output.SetupLogging(output.LogConfig{Verbose: g.Verbose})

	resolved, err := config.Resolve(config.ResolveOptions{
		ConfigFlag: g.configFlag,
		RootFlag:   g.rootFlag,
		ArchFlag:   g.archFlag,
	})
	if err != nil {
		return withExitCode(err)
	}
	g.Resolved = resolved

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: g.Verbose}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(g.timestampsFlag)
	} else if resolved.Config != nil && resolved.Config.Log.Timestamps != nil {
		logCfg.Timestamps = resolved.Config.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	output.Debug("initializing CLI",
		"config", resolved.ConfigPath.Value,
		"root", resolved.Root.Value,
		"arch", resolved.Arch.Value,
		"formulaDirectories", resolved.FormulaDirectories.Value,
		"fileGroup", resolved.FileGroup.Value,
	)
	return nil
}
