package versions

import (
	"context"
	"fmt"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/manifest"
	"github.com/oshokin/azan-release/internal/service/common"
	"github.com/oshokin/azan-release/internal/shell"
	"github.com/oshokin/azan-release/internal/vcs"
)

// Options contains inputs for the version commands.
type Options struct {
	common.Options
	// Version is the candidate version as typed by the operator.
	Version string
}

// Gate parses candidate and checks it against the latest tag of the repository.
// Malformed input fails with release.ErrConfiguration, a version that is not
// strictly greater with release.ErrOrdering and an unreadable tag list with
// release.ErrPublication.
func Gate(ctx context.Context, runner shell.Runner, cfg *config.Config, candidate string) (release.SemanticVersion, error) {
	if _, err := release.ParseVersion(candidate); err != nil {
		return release.SemanticVersion{}, err
	}

	latest, err := vcs.NewGit(runner, cfg.GitRemote).LatestTag(ctx)
	if err != nil {
		return release.SemanticVersion{}, fmt.Errorf("%w: read latest tag: %w", release.ErrPublication, err)
	}

	version, err := release.CheckNewer(candidate, latest)
	if err != nil {
		return release.SemanticVersion{}, err
	}

	logger.InfoKV(ctx, "Version accepted", "version", version.String(), "latest_tag", latest.String())

	return version, nil
}

// Validate runs the gate without touching the checkout.
func Validate(ctx context.Context, opts *Options) error {
	ctx = logger.WithKV(logger.WithName(ctx, "validate-version"), "candidate", opts.Version)

	session, err := common.Open(ctx, &opts.Options, false)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	_, err = Gate(ctx, session.Runner, session.Config, opts.Version)

	return err
}

// Update runs the gate and then stamps the version into the crate manifest, the
// Swift package release tag and, when present, the Android VERSION_NAME property.
// Either every file is rewritten or none is.
func Update(ctx context.Context, opts *Options) error {
	ctx = logger.WithKV(logger.WithName(ctx, "update-versions"), "candidate", opts.Version)

	session, err := common.Open(ctx, &opts.Options, true)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	version, err := Gate(ctx, session.Runner, session.Config, opts.Version)
	if err != nil {
		return err
	}

	cfg := session.Config
	edits := manifest.VersionEdits(
		cfg.CargoManifest,
		cfg.IOS.PackageManifest,
		cfg.Android.GradleProperties,
		cfg.IOS.Declarations,
		version,
	)

	if err = manifest.RewriteAll(edits...); err != nil {
		return fmt.Errorf("update versions: %w", err)
	}

	logger.InfoKV(ctx, "Versions updated", "version", version.String())

	return nil
}
