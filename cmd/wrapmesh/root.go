package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/wrapmesh/internal/config"
	"github.com/notargets/wrapmesh/internal/logging"
)

var (
	settings config.Settings
	logger   = logging.NewNop()
)

// newRootCmd builds the command tree with fresh flag state
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wrapmesh",
		Short: "Derive labelled sub-meshes and move fields between them",
		Long: `wrapmesh selects cells of a labelled tetrahedral mesh, builds the sub-mesh and
its shell, and cuts or expands finite element fields between the two.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if settings, err = config.LoadSettings(); err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			level, err := logging.ParseLevel(settings.LogLevel)
			if err != nil {
				return err
			}
			logger = logging.New(level)
			slog.SetDefault(logger)
			return nil
		},
	}
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error), overrides WRAPMESH_LOG_LEVEL")

	rootCmd.AddCommand(newInfoCmd(), newExtractCmd(), newTransferCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the command line and exits non-zero on error
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
