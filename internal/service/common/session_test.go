//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/pipeline"
	"github.com/oshokin/azan-release/internal/shell"
	"github.com/oshokin/azan-release/internal/shell/shelltest"
)

type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.name }

// everyoneAlive reports every PID as another azan-release process.
func everyoneAlive(pid int) (ps.Process, error) {
	return fakeProcess{pid: pid, name: "azan-release"}, nil
}

func testOptions(t *testing.T) *Options {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.TargetDir = filepath.Join(dir, "target")

	path := filepath.Join(dir, "azan-release.yaml")
	require.NoError(t, config.Save(path, cfg))

	return &Options{
		ConfigPath:  path,
		MarkerPath:  filepath.Join(dir, ".azan-release.lock"),
		Runner:      shelltest.New(),
		FindProcess: everyoneAlive,
	}
}

// TestOpenExclusiveHoldsMarker acquires and releases the run marker.
func TestOpenExclusiveHoldsMarker(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)

	session, err := Open(context.Background(), opts, true)
	require.NoError(t, err)
	require.FileExists(t, opts.MarkerPath)
	require.Equal(t, filepath.Join(filepath.Dir(opts.ConfigPath), "target"), session.Config.TargetDir)

	session.Close(context.Background())
	require.NoFileExists(t, opts.MarkerPath)
}

// TestOpenBusy refuses to run while another live process holds the marker.
func TestOpenBusy(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	require.NoError(t, os.WriteFile(opts.MarkerPath, []byte(strconv.Itoa(os.Getpid()+1)), 0o600))

	_, err := Open(context.Background(), opts, true)
	require.ErrorIs(t, err, release.ErrBusy)

	// Read-only commands do not need the marker.
	session, err := Open(context.Background(), opts, false)
	require.NoError(t, err)
	session.Close(context.Background())
	require.FileExists(t, opts.MarkerPath)
}

// TestOpenMissingExplicitConfig fails when an explicit config file does not exist.
func TestOpenMissingExplicitConfig(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), &Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")}, false)
	require.Error(t, err)
}

// TestPreflightNamesMissingTools reports every missing executable as a build error.
func TestPreflightNamesMissingTools(t *testing.T) {
	t.Parallel()

	opts := testOptions(t)
	opts.LookPath = func(file string) (string, error) {
		if file == "cargo" {
			return "/usr/bin/cargo", nil
		}

		return "", errors.New("not found")
	}

	session, err := Open(context.Background(), opts, false)
	require.NoError(t, err)

	_, err = pipeline.Run(context.Background(), []pipeline.Stage{
		session.Preflight(shell.Tool{Name: "cargo", Purpose: "build"}, shell.Tool{Name: "lipo", Purpose: "combine"}),
	})
	require.ErrorIs(t, err, release.ErrBuild)
	require.ErrorIs(t, err, shell.ErrToolMissing)
	require.ErrorContains(t, err, "lipo (combine)")
	require.NotContains(t, err.Error(), "cargo")
}

// TestReportRendersArtifacts writes the artifact table to the configured writer.
func TestReportRendersArtifacts(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	opts := testOptions(t)
	opts.Report = &out

	session, err := Open(context.Background(), opts, false)
	require.NoError(t, err)

	session.Report(context.Background(), &pipeline.Result{Artifacts: []release.Artifact{
		release.NewAggregateArtifact(release.KindCompressedBundle, "ios/AzanFFI.xcframework.zip"),
	}})

	require.Contains(t, out.String(), "ios/AzanFFI.xcframework.zip")
	require.Contains(t, out.String(), release.Aggregate)
}
