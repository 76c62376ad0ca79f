package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/pipeline"
)

var (
	// planMode selects the build mode shown for every target.
	planMode string

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the target matrix built for both platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := release.ParseBuildMode(planMode)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			matrix := cfg.Matrix()
			targets := append(
				matrix.Targets(release.PlatformIOS, mode),
				matrix.Targets(release.PlatformAndroid, mode)...,
			)

			return pipeline.RenderTargets(cmd.OutOrStdout(), targets)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	planCmd.Flags().StringVar(&planMode, "mode", string(release.ModeRelease), "build mode to show: debug or release")

	rootCmd.AddCommand(planCmd)
}
