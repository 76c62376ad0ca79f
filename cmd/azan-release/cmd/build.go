package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/azan-release/internal/service/android"
	"github.com/oshokin/azan-release/internal/service/ios"
)

const releaseArg = "release"

var (
	// debugBuild builds the iOS libraries without optimizations.
	debugBuild bool

	buildIOSCmd = &cobra.Command{
		Use:       "build-ios [release]",
		Aliases:   []string{"build-platform-a"},
		Short:     "Build the XCFramework; with release, publish it as the version in Cargo.toml",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{releaseArg},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ios.Run(cmd.Context(), &ios.Options{
				Options: commonOptions(cmd),
				Release: len(args) == 1,
				Debug:   debugBuild,
			})
		},
	}

	buildAndroidCmd = &cobra.Command{
		Use:       "build-android [release]",
		Aliases:   []string{"build-platform-b"},
		Short:     "Build the Android AAR in debug mode, or release mode with release",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{releaseArg},
		RunE: func(cmd *cobra.Command, args []string) error {
			return android.Run(cmd.Context(), &android.Options{
				Options: commonOptions(cmd),
				Release: len(args) == 1,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	buildIOSCmd.Flags().BoolVar(&debugBuild, "debug", false, "build the libraries in debug mode (not allowed with release)")

	rootCmd.AddCommand(buildIOSCmd, buildAndroidCmd)
}
