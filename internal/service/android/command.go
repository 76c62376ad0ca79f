package android

import (
	"context"
	"path/filepath"

	"github.com/oshokin/azan-release/internal/bundle"
	"github.com/oshokin/azan-release/internal/cleanup"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/pipeline"
	"github.com/oshokin/azan-release/internal/service/common"
	"github.com/oshokin/azan-release/internal/shell"
)

// Options contains inputs for build-android.
type Options struct {
	common.Options
	// Release builds the optimized AAR; otherwise the debug variant is built.
	Release bool
}

// Run cleans the Gradle outputs and assembles the AAR for every Android triple.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "build-android")

	session, err := common.Open(ctx, &opts.Options, true)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	cfg := session.Config

	mode := release.ModeDebug
	if opts.Release {
		mode = release.ModeRelease
	}

	packager := bundle.NewPackager(session.Runner, cfg)
	targets := cfg.Matrix().Targets(release.PlatformAndroid, mode)

	logger.InfoKV(ctx, "Starting Android pipeline", "mode", string(mode), "targets", len(targets))

	stages := []pipeline.Stage{
		session.Preflight(
			shell.Tool{Name: "cargo", Purpose: "native build"},
			shell.Tool{Name: filepath.Join(cfg.Android.ProjectDir, "gradlew"), Purpose: "Android build"},
		),
		{
			Name: "clean",
			Kind: release.ErrBuild,
			Run: func(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
				return nil, cleanup.Clean(ctx, cfg, cleanup.ScopeAndroid)
			},
		},
		{
			Name: "gradle",
			Kind: release.ErrBuild,
			Run: func(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
				aar, err := packager.AssembleAAR(ctx, targets)
				if err != nil {
					return nil, err
				}

				return []release.Artifact{aar}, nil
			},
		},
	}

	result, err := pipeline.Run(ctx, stages)
	session.Report(ctx, result)

	return err
}
