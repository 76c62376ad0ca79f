package native

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
)

var (
	errTooFewSlices   = errors.New("a fat library needs at least two static libraries")
	errMixedClasses   = errors.New("static libraries belong to different platform classes")
	errDuplicateArch  = errors.New("static libraries share an architecture")
	errStaleFatOutput = errors.New("fat library output already exists, run clean first")
)

// CombineFat merges single-architecture libraries of one platform class into
// cfg.FatSimulatorOutputDir. An existing output is never overwritten.
func (b *Builder) CombineFat(ctx context.Context, libs []release.Artifact) (release.Artifact, error) {
	if err := checkSlices(libs); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: %w", release.ErrPackaging, err)
	}

	output := filepath.Join(b.cfg.FatSimulatorOutputDir, b.cfg.StaticLibraryName())

	if _, err := os.Stat(output); err == nil {
		return release.Artifact{}, fmt.Errorf("%w: %w: %s", release.ErrPackaging, errStaleFatOutput, output)
	}

	if err := os.MkdirAll(b.cfg.FatSimulatorOutputDir, 0o755); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: create %s: %w", release.ErrPackaging, b.cfg.FatSimulatorOutputDir, err)
	}

	args := []string{"-create"}
	for _, lib := range libs {
		args = append(args, lib.Path)
	}

	args = append(args, "-output", output)

	logger.InfoKV(ctx, "Combining static libraries", "inputs", len(libs), "output", output)

	if err := b.runner.Run(ctx, nil, "lipo", args...); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: lipo: %w", release.ErrPackaging, err)
	}

	return release.NewAggregateArtifact(release.KindFatStaticLibrary, output), nil
}

// checkSlices enforces the combiner precondition: two or more per-target
// static libraries of the same platform class with distinct triples.
func checkSlices(libs []release.Artifact) error {
	if len(libs) < 2 {
		return errTooFewSlices
	}

	seen := make(map[string]struct{}, len(libs))

	first := libs[0].Target
	for _, lib := range libs {
		if lib.Kind != release.KindStaticLibrary || lib.Target == nil {
			return fmt.Errorf("%s is not a per-target static library", lib.Path)
		}

		if lib.Target.Platform != first.Platform || lib.Target.Class != first.Class {
			return errMixedClasses
		}

		if _, dup := seen[lib.Target.Triple]; dup {
			return fmt.Errorf("%w: %s", errDuplicateArch, lib.Target.Triple)
		}

		seen[lib.Target.Triple] = struct{}{}
	}

	return nil
}
