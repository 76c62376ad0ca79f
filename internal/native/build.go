package native

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/shell"
)

var errArtifactMissing = errors.New("expected artifact was not produced")

// Builder compiles the native core with cargo.
type Builder struct {
	runner shell.Runner
	cfg    *config.Config
}

// NewBuilder returns a Builder for the crate described by cfg.
func NewBuilder(runner shell.Runner, cfg *config.Config) *Builder {
	return &Builder{runner: runner, cfg: cfg}
}

// BuildTargets compiles every target in order, producing one static library each.
// The first failing target aborts the whole run; nothing built so far is reused.
func (b *Builder) BuildTargets(ctx context.Context, targets []release.BuildTarget) ([]release.Artifact, error) {
	artifacts := make([]release.Artifact, 0, len(targets))

	for _, target := range targets {
		artifact, err := b.buildTarget(ctx, target)
		if err != nil {
			return nil, err
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

func (b *Builder) buildTarget(ctx context.Context, target release.BuildTarget) (release.Artifact, error) {
	logger.InfoKV(ctx, "Compiling native core", "target", target.Triple, "mode", string(target.Mode))

	args := []string{
		"build",
		"--lib",
		"--manifest-path", b.cfg.CargoManifest,
		"--target-dir", b.cfg.TargetDir,
		"--target", target.Triple,
	}

	// Use locked dependencies if the lock file is present.
	if _, err := os.Stat(b.cfg.CargoLock); err == nil {
		args = append(args, "--locked")
	}

	if target.Mode == release.ModeRelease {
		args = append(args, "--release")
	}

	if err := b.runner.Run(ctx, nil, "cargo", args...); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: %s: %w", release.ErrBuild, target, err)
	}

	path := filepath.Join(b.cfg.TargetOutputDir(target), b.cfg.StaticLibraryName())
	if _, err := os.Stat(path); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: %s: %w: %s", release.ErrBuild, target, errArtifactMissing, path)
	}

	return release.NewTargetArtifact(release.KindStaticLibrary, path, target), nil
}
