// Package commontest builds throwaway checkouts for service tests.
package commontest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/service/common"
	"github.com/oshokin/azan-release/internal/shell/shelltest"
)

// PackageSwift is the manifest every workspace starts with.
const PackageSwift = `// swift-tools-version:5.7
import PackageDescription

let useLocalFramework = false
let releaseTag = "0.2.0"
let releaseChecksum = "0000"
`

// CargoToml is the crate manifest every workspace starts with.
const CargoToml = `[package]
name = "azan_rslib"
version = "0.3.0"
edition = "2021"
`

// GradleProperties is the Android properties file every workspace starts with.
const GradleProperties = "GROUP=com.azan\nVERSION_NAME=0.2.0\n"

// Workspace is a checkout rooted in a temporary directory.
type Workspace struct {
	Dir     string
	Config  *config.Config
	Runner  *shelltest.Recorder
	Options common.Options
}

// NewWorkspace writes a config whose every path lives under a temp dir, plus the
// manifests the pipelines edit. Every tool resolves and no other process holds the marker.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	dir := t.TempDir()
	at := func(parts ...string) string {
		return filepath.Join(append([]string{dir}, parts...)...)
	}

	cfg := config.Default()
	cfg.CargoManifest = at("Cargo.toml")
	cfg.CargoLock = at("Cargo.lock")
	cfg.TargetDir = at("target")
	cfg.FatSimulatorOutputDir = at("target", "ios-sim-universal")
	cfg.IOS.StagingDir = at("ios", "build")
	cfg.IOS.HeadersDir = at("ios", "build", "headers")
	cfg.IOS.SourcesDir = at("Sources", "Azan")
	cfg.IOS.FrameworkPath = at("ios", "AzanFFI.xcframework")
	cfg.IOS.ArchivePath = at("ios", "AzanFFI.xcframework.zip")
	cfg.IOS.PackageManifest = at("Package.swift")
	cfg.Android.ProjectDir = at("android")
	cfg.Android.BuildDirs = []string{at("android", "build"), at("android", "lib", "build")}
	cfg.Android.GradleProperties = at("android", "gradle.properties")

	configPath := at("azan-release.yaml")
	require.NoError(t, config.Save(configPath, cfg))

	WriteFile(t, cfg.CargoManifest, CargoToml)
	WriteFile(t, cfg.IOS.PackageManifest, PackageSwift)
	WriteFile(t, cfg.Android.GradleProperties, GradleProperties)

	runner := shelltest.New()

	return &Workspace{
		Dir:    dir,
		Config: cfg,
		Runner: runner,
		Options: common.Options{
			ConfigPath: configPath,
			MarkerPath: at(".azan-release.lock"),
			Runner:     runner,
			LookPath: func(file string) (string, error) {
				return file, nil
			},
			FindProcess: func(int) (ps.Process, error) {
				return nil, nil
			},
		},
	}
}

// WriteFile creates path with contents, creating parent directories.
func WriteFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// ReadFile returns the contents of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}
