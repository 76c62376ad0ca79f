package native

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/shell/shelltest"
)

// testConfig roots every configured path under dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.CargoManifest = filepath.Join(dir, "Cargo.toml")
	cfg.CargoLock = filepath.Join(dir, "Cargo.lock")
	cfg.TargetDir = filepath.Join(dir, "target")
	cfg.FatSimulatorOutputDir = filepath.Join(dir, "target", "ios-sim-universal")
	cfg.IOS.StagingDir = filepath.Join(dir, "ios", "build")
	cfg.IOS.HeadersDir = filepath.Join(dir, "ios", "build", "headers")
	cfg.IOS.SourcesDir = filepath.Join(dir, "Sources", "Azan")

	return cfg
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// emitLibrary makes a fake cargo build leave the static and shared libraries behind.
func emitLibrary(t *testing.T, cfg *config.Config) func(shelltest.Call) error {
	t.Helper()

	return func(call shelltest.Call) error {
		var triple string

		mode := release.ModeDebug

		for i, arg := range call.Args {
			if arg == "--target" {
				triple = call.Args[i+1]
			}

			if arg == "--release" {
				mode = release.ModeRelease
			}
		}

		dir := cfg.TargetOutputDir(release.BuildTarget{Triple: triple, Mode: mode})
		writeFile(t, filepath.Join(dir, cfg.StaticLibraryName()), triple)
		writeFile(t, filepath.Join(dir, cfg.SharedLibraryName()), triple)

		return nil
	}
}

// TestBuildTargetsProducesOneLibraryPerTarget checks the cargo invocations and artifacts.
func TestBuildTargetsProducesOneLibraryPerTarget(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeFile(t, cfg.CargoLock, "")

	runner := shelltest.New()
	runner.OnRun("cargo build", emitLibrary(t, cfg))

	targets := cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease)

	artifacts, err := NewBuilder(runner, cfg).BuildTargets(context.Background(), targets)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	for i, a := range artifacts {
		require.Equal(t, release.KindStaticLibrary, a.Kind)
		require.Equal(t, targets[i], *a.Target)
		require.FileExists(t, a.Path)
	}

	calls := runner.Calls()
	require.Len(t, calls, 3)
	require.Contains(t, calls[0].Args, "--locked")
	require.Contains(t, calls[0].Args, "--release")
	require.Contains(t, calls[0].Args, "aarch64-apple-ios")
}

// TestBuildTargetsFailFast stops at the first failing target.
func TestBuildTargetsFailFast(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New().FailOn("cargo build --lib --manifest-path " + cfg.CargoManifest + " --target-dir " + cfg.TargetDir + " --target aarch64-apple-ios-sim")
	runner.OnRun("cargo build", emitLibrary(t, cfg))

	targets := cfg.Matrix().Targets(release.PlatformIOS, release.ModeDebug)

	artifacts, err := NewBuilder(runner, cfg).BuildTargets(context.Background(), targets)
	require.ErrorIs(t, err, release.ErrBuild)
	require.ErrorIs(t, err, shelltest.ErrCommandFailed)
	require.Nil(t, artifacts)
	require.Len(t, runner.Calls(), 2)
	require.False(t, runner.Ran("cargo build --lib --manifest-path "+cfg.CargoManifest+" --target-dir "+cfg.TargetDir+" --target x86_64-apple-ios"))
}

// TestBuildTargetsMissingOutput reports a build error when cargo leaves nothing behind.
func TestBuildTargetsMissingOutput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)

	_, err := NewBuilder(shelltest.New(), cfg).BuildTargets(context.Background(), cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease))
	require.ErrorIs(t, err, release.ErrBuild)
	require.ErrorIs(t, err, errArtifactMissing)
}

func simulatorLibs(cfg *config.Config) []release.Artifact {
	var libs []release.Artifact

	for _, target := range cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease) {
		if target.Class == release.ClassSimulator {
			path := filepath.Join(cfg.TargetOutputDir(target), cfg.StaticLibraryName())
			libs = append(libs, release.NewTargetArtifact(release.KindStaticLibrary, path, target))
		}
	}

	return libs
}

// TestCombineFat runs lipo over the simulator slices into the configured directory.
func TestCombineFat(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New()
	libs := simulatorLibs(cfg)

	fat, err := NewBuilder(runner, cfg).CombineFat(context.Background(), libs)
	require.NoError(t, err)
	require.Equal(t, release.KindFatStaticLibrary, fat.Kind)
	require.Equal(t, filepath.Join(cfg.FatSimulatorOutputDir, "libazan_rslib.a"), fat.Path)
	require.DirExists(t, cfg.FatSimulatorOutputDir)

	require.Equal(t, []string{
		"lipo -create " + libs[0].Path + " " + libs[1].Path + " -output " + fat.Path,
	}, runner.Lines())
}

// TestCombineFatRefusesStaleOutput never overwrites a previous fat library.
func TestCombineFatRefusesStaleOutput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writeFile(t, filepath.Join(cfg.FatSimulatorOutputDir, cfg.StaticLibraryName()), "old")

	runner := shelltest.New()

	_, err := NewBuilder(runner, cfg).CombineFat(context.Background(), simulatorLibs(cfg))
	require.ErrorIs(t, err, release.ErrPackaging)
	require.ErrorIs(t, err, errStaleFatOutput)
	require.Empty(t, runner.Calls())
}

// TestCombineFatPreconditions rejects too few, mixed or duplicated slices.
func TestCombineFatPreconditions(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	builder := NewBuilder(shelltest.New(), cfg)
	libs := simulatorLibs(cfg)

	_, err := builder.CombineFat(context.Background(), libs[:1])
	require.ErrorIs(t, err, errTooFewSlices)

	device := cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease)[0]
	mixed := append([]release.Artifact{release.NewTargetArtifact(release.KindStaticLibrary, "device.a", device)}, libs[0])
	_, err = builder.CombineFat(context.Background(), mixed)
	require.ErrorIs(t, err, errMixedClasses)

	_, err = builder.CombineFat(context.Background(), []release.Artifact{libs[0], libs[0]})
	require.ErrorIs(t, err, errDuplicateArch)
}

// emitBindings makes a fake uniffi-bindgen write its usual three files.
func emitBindings(t *testing.T) func(shelltest.Call) error {
	t.Helper()

	return func(call shelltest.Call) error {
		var outDir string

		for i, arg := range call.Args {
			if arg == "--out-dir" {
				outDir = call.Args[i+1]
			}
		}

		writeFile(t, filepath.Join(outDir, "azan_rslib.swift"), "public func prayerTimes() {}\n")
		writeFile(t, filepath.Join(outDir, "azan_rslibFFI.h"), "#pragma once\n")
		writeFile(t, filepath.Join(outDir, "azan_rslibFFI.modulemap"), "module azan_rslibFFI {}\n")

		return nil
	}
}

// TestGenerateRelocatesBindings moves sources into the package and renames the module map.
func TestGenerateRelocatesBindings(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New().OnRun("cargo run", emitBindings(t))

	// A previous generation is replaced in place.
	writeFile(t, filepath.Join(cfg.IOS.SourcesDir, "azan_rslib.swift"), "stale\n")

	device := cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease)[0]
	built := []release.Artifact{release.NewTargetArtifact(release.KindStaticLibrary, "lib.a", device)}

	artifacts, err := NewBindingGenerator(runner, cfg).Generate(context.Background(), built)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	swift, err := os.ReadFile(filepath.Join(cfg.IOS.SourcesDir, "azan_rslib.swift"))
	require.NoError(t, err)
	require.Equal(t, "public func prayerTimes() {}\n", string(swift))
	require.FileExists(t, filepath.Join(cfg.IOS.HeadersDir, "azan_rslibFFI.h"))
	require.FileExists(t, filepath.Join(cfg.IOS.HeadersDir, ModuleMapFilename))
	require.NoFileExists(t, filepath.Join(cfg.IOS.HeadersDir, "azan_rslibFFI.modulemap"))
	require.NoFileExists(t, filepath.Join(cfg.IOS.SourcesDir, ".azan_rslib.swift.old"))

	line := runner.Lines()[0]
	require.Contains(t, line, "--library "+filepath.Join(cfg.TargetOutputDir(device), "libazan_rslib.dylib"))
	require.Contains(t, line, "--language swift")
}

// TestGeneratePropagatesFailure passes the generator failure through untouched.
func TestGeneratePropagatesFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New().FailOn("cargo run")

	device := cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease)[0]
	built := []release.Artifact{release.NewTargetArtifact(release.KindStaticLibrary, "lib.a", device)}

	_, err := NewBindingGenerator(runner, cfg).Generate(context.Background(), built)
	require.ErrorIs(t, err, release.ErrBuild)
	require.ErrorIs(t, err, shelltest.ErrCommandFailed)
}

// TestGenerateWithoutBindingTarget fails before invoking the generator.
func TestGenerateWithoutBindingTarget(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New()

	_, err := NewBindingGenerator(runner, cfg).Generate(context.Background(), nil)
	require.ErrorIs(t, err, errBindingLibraryMissing)
	require.Empty(t, runner.Calls())
}

// TestGenerateWithoutModuleMap rejects incomplete generator output.
func TestGenerateWithoutModuleMap(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	runner := shelltest.New().OnRun("cargo run", func(call shelltest.Call) error {
		writeFile(t, filepath.Join(cfg.IOS.StagingDir, "bindings", "azan_rslib.swift"), "")
		return nil
	})

	device := cfg.Matrix().Targets(release.PlatformIOS, release.ModeRelease)[0]
	built := []release.Artifact{release.NewTargetArtifact(release.KindStaticLibrary, "lib.a", device)}

	_, err := NewBindingGenerator(runner, cfg).Generate(context.Background(), built)
	require.ErrorIs(t, err, errNoModuleMap)
}

// TestFileChecksumHashesSourceOnDisk hashes the file contents, not a caller-supplied copy.
func TestFileChecksumHashesSourceOnDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "azan_rslib.swift")
	writeFile(t, path, "public func prayerTimes() {}\n")

	sum, err := fileChecksum(path)
	require.NoError(t, err)

	want := sha256.Sum256([]byte("public func prayerTimes() {}\n"))
	require.Equal(t, want[:], sum)
}

// TestInstallFirstCopy writes a new destination and consumes the source.
func TestInstallFirstCopy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "out", "azan_rslibFFI.h")
	destination := filepath.Join(dir, "headers", "azan_rslibFFI.h")
	writeFile(t, source, "#pragma once\n")

	require.NoError(t, install(source, destination))

	data, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, "#pragma once\n", string(data))
	require.NoFileExists(t, source)
	require.NoFileExists(t, filepath.Join(dir, "headers", ".azan_rslibFFI.h.old"))
}

// TestInstallMissingSourceLeavesNoPlaceholder fails before touching the destination.
func TestInstallMissingSourceLeavesNoPlaceholder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	destination := filepath.Join(dir, "headers", "azan_rslibFFI.h")

	err := install(filepath.Join(dir, "missing.h"), destination)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoFileExists(t, destination)
}
