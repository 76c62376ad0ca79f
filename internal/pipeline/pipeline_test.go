package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/azan-release/internal/domain/release"
)

func producing(kind release.ArtifactKind, path string, ran *[]string, name string) StepFunc {
	return func(_ context.Context, _ []release.Artifact) ([]release.Artifact, error) {
		*ran = append(*ran, name)
		return []release.Artifact{release.NewAggregateArtifact(kind, path)}, nil
	}
}

// TestRunPassesArtifactsForward verifies later stages see what earlier ones produced.
func TestRunPassesArtifactsForward(t *testing.T) {
	t.Parallel()

	var ran []string

	stages := []Stage{
		{Name: "build", Kind: release.ErrBuild, Run: producing(release.KindStaticLibrary, "lib.a", &ran, "build")},
		{Name: "package", Kind: release.ErrPackaging, Run: func(_ context.Context, in []release.Artifact) ([]release.Artifact, error) {
			ran = append(ran, "package")
			require.Len(t, in, 1)
			require.Equal(t, "lib.a", in[0].Path)

			return []release.Artifact{release.NewAggregateArtifact(release.KindFrameworkBundle, "X.xcframework")}, nil
		}},
	}

	result, err := Run(context.Background(), stages)
	require.NoError(t, err)
	require.Equal(t, []string{"build", "package"}, ran)
	require.Equal(t, []string{"build", "package"}, result.Completed)
	require.Len(t, result.Artifacts, 2)
}

// TestRunStopsAtFirstFailure ensures no stage after a failing one starts.
func TestRunStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	var ran []string

	cause := errors.New("cargo exited with status 101")
	stages := []Stage{
		{Name: "build", Kind: release.ErrBuild, Run: func(context.Context, []release.Artifact) ([]release.Artifact, error) {
			ran = append(ran, "build")
			return nil, cause
		}},
		{Name: "package", Kind: release.ErrPackaging, Run: producing(release.KindFrameworkBundle, "x", &ran, "package")},
		{Name: "publish", Kind: release.ErrPublication, Run: producing(release.KindCompressedBundle, "x.zip", &ran, "publish")},
	}

	result, err := Run(context.Background(), stages)
	require.Error(t, err)
	require.Equal(t, []string{"build"}, ran)
	require.Empty(t, result.Completed)

	require.ErrorIs(t, err, release.ErrBuild)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, release.ErrPackaging)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, "build", stageErr.Stage)
	require.Contains(t, err.Error(), "cargo exited with status 101")
}

// TestRunKeepsPreciseKind checks that ordering and configuration errors are not relabelled.
func TestRunKeepsPreciseKind(t *testing.T) {
	t.Parallel()

	stages := []Stage{
		{Name: "validate", Kind: release.ErrPublication, Run: func(context.Context, []release.Artifact) ([]release.Artifact, error) {
			return nil, fmt.Errorf("gate: %w", release.ErrOrdering)
		}},
	}

	_, err := Run(context.Background(), stages)
	require.ErrorIs(t, err, release.ErrOrdering)
	require.NotErrorIs(t, err, release.ErrPublication)
}

// TestRunKeepsPublicationKind reports a git failure inside a configuration stage as publication.
func TestRunKeepsPublicationKind(t *testing.T) {
	t.Parallel()

	stages := []Stage{
		{Name: "validate-version", Kind: release.ErrConfiguration, Run: func(context.Context, []release.Artifact) ([]release.Artifact, error) {
			return nil, fmt.Errorf("%w: read latest tag: exit status 128", release.ErrPublication)
		}},
	}

	_, err := Run(context.Background(), stages)
	require.ErrorIs(t, err, release.ErrPublication)
	require.NotErrorIs(t, err, release.ErrConfiguration)
}

// TestRunHonoursCancellation refuses to start a stage once the context is cancelled.
func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var ran []string

	stages := []Stage{
		{Name: "build", Kind: release.ErrBuild, Run: func(context.Context, []release.Artifact) ([]release.Artifact, error) {
			ran = append(ran, "build")
			cancel()

			return nil, nil
		}},
		{Name: "package", Kind: release.ErrPackaging, Run: producing(release.KindFrameworkBundle, "x", &ran, "package")},
	}

	_, err := Run(ctx, stages)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, []string{"build"}, ran)
}

// TestRenderArtifacts lists every artifact with its producer.
func TestRenderArtifacts(t *testing.T) {
	t.Parallel()

	target := release.BuildTarget{Platform: release.PlatformIOS, Triple: "aarch64-apple-ios", Mode: release.ModeRelease}

	var buf bytes.Buffer
	require.NoError(t, RenderArtifacts(&buf, []release.Artifact{
		release.NewTargetArtifact(release.KindStaticLibrary, "target/aarch64-apple-ios/release/libazan_rslib.a", target),
		release.NewAggregateArtifact(release.KindFrameworkBundle, "ios/AzanFFI.xcframework"),
	}))

	out := buf.String()
	require.Contains(t, out, "libazan_rslib.a")
	require.Contains(t, out, "AzanFFI.xcframework")
	require.Contains(t, out, "aggregate")
}

// TestRenderTargets prints one row per target.
func TestRenderTargets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderTargets(&buf, release.DefaultMatrix().Targets(release.PlatformIOS, release.ModeRelease)))
	require.Contains(t, buf.String(), "aarch64-apple-ios-sim")
	require.Contains(t, buf.String(), "x86_64-apple-ios")
}
