package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/azan-release/internal/service/versions"
)

var (
	validateVersionCmd = &cobra.Command{
		Use:   "validate-version <version>",
		Short: "Check that a version is MAJOR.MINOR.PATCH and greater than the latest tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return versions.Validate(cmd.Context(), &versions.Options{
				Options: commonOptions(cmd),
				Version: args[0],
			})
		},
	}

	updateVersionsCmd = &cobra.Command{
		Use:   "update-versions <version>",
		Short: "Stamp a new version into Cargo.toml, Package.swift and gradle.properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return versions.Update(cmd.Context(), &versions.Options{
				Options: commonOptions(cmd),
				Version: args[0],
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(validateVersionCmd, updateVersionsCmd)
}
