package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/lock"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/service/common"
	"github.com/oshokin/azan-release/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// markerPath to the run marker guarding concurrent runs.
	markerPath string
	// logLevel is the minimal level written to stderr.
	logLevel string

	// rootCmd represents the base command; every action is a subcommand.
	rootCmd = &cobra.Command{
		Use:           "azan-release",
		Short:         "Build, package and release the azan native core for iOS and Android",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevel)
			}

			logger.SetLevel(level)
			logger.DebugKV(cmd.Context(), "azan-release",
				"version", version.Short(),
				"log_level", logger.Level().String(),
			)

			return nil
		},
	}
)

// Execute runs the azan-release CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.ErrorKV(ctx, "Command failed", "error", err)
		os.Exit(1)
	}
}

// commonOptions collects the persistent flags shared by every service.
func commonOptions(cmd *cobra.Command) common.Options {
	return common.Options{
		ConfigPath: configPath,
		MarkerPath: markerPath,
		Report:     cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&markerPath, "marker", lock.DefaultMarkerFilename, "path to the run marker file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
