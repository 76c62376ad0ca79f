package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/azan-release/internal/prompt"
	"github.com/oshokin/azan-release/internal/service/clean"
)

var (
	// assumeYes skips the clean-all confirmation.
	assumeYes bool

	cleanCmd = &cobra.Command{
		Use:       "clean [ios|android]",
		Short:     "Remove build outputs of one platform, or both",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"ios", "android"},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &clean.Options{Options: commonOptions(cmd)}
			if len(args) == 1 {
				opts.Scope = args[0]
			}

			return clean.Run(cmd.Context(), opts)
		},
	}

	cleanAllCmd = &cobra.Command{
		Use:   "clean-all",
		Short: "Remove every build output and the native toolchain cache after confirmation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var confirmer prompt.Confirmer = prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
			if assumeYes {
				confirmer = prompt.Static(true)
			}

			return clean.RunAll(cmd.Context(), &clean.Options{
				Options:   commonOptions(cmd),
				Confirmer: confirmer,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	cleanAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(cleanCmd, cleanAllCmd)
}
