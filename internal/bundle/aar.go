package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
)

var errNoAndroidTargets = errors.New("no android targets requested")

// AssembleAAR drives the Gradle wrapper of the Android project. Gradle's cargo
// plugin compiles the native core for every requested triple and packs the AAR.
func (p *Packager) AssembleAAR(ctx context.Context, targets []release.BuildTarget) (release.Artifact, error) {
	if len(targets) == 0 {
		return release.Artifact{}, fmt.Errorf("%w: %w", release.ErrBuild, errNoAndroidTargets)
	}

	mode := targets[0].Mode

	triples := make([]string, 0, len(targets))
	for _, target := range targets {
		triples = append(triples, target.Triple)
	}

	android := p.cfg.Android
	task := fmt.Sprintf(":%s:assemble%s", android.Module, taskSuffix(mode))

	logger.InfoKV(ctx, "Assembling Android archive", "task", task, "targets", strings.Join(triples, ","))

	err := p.runner.Run(ctx, nil, filepath.Join(android.ProjectDir, "gradlew"),
		"-p", android.ProjectDir,
		task,
		"-PrustTargets="+strings.Join(triples, ","),
	)
	if err != nil {
		return release.Artifact{}, fmt.Errorf("%w: gradle %s: %w", release.ErrBuild, task, err)
	}

	output := AAROutputPath(android.ProjectDir, android.Module, mode)
	if _, err = os.Stat(output); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: gradle did not produce %s: %w", release.ErrPackaging, output, err)
	}

	return release.NewAggregateArtifact(release.KindArchiveBundle, output), nil
}

// AAROutputPath is where the Android Gradle plugin writes the archive of module.
func AAROutputPath(projectDir, module string, mode release.BuildMode) string {
	return filepath.Join(projectDir, module, "build", "outputs", "aar", fmt.Sprintf("%s-%s.aar", module, mode))
}

func taskSuffix(mode release.BuildMode) string {
	if mode == release.ModeRelease {
		return "Release"
	}

	return "Debug"
}
