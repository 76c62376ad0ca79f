package native

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/shell"

	// Register SHA256 for install verification.
	_ "crypto/sha256"
)

const (
	// ModuleMapFilename is the name xcodebuild expects next to the headers.
	ModuleMapFilename = "module.modulemap"

	// installMode is applied to relocated binding files.
	installMode os.FileMode = 0o644

	// installHash verifies relocated files were written intact.
	installHash crypto.Hash = crypto.SHA256
)

var (
	errBindingLibraryMissing = errors.New("no static library was built for the binding target")
	errNoModuleMap           = errors.New("binding generator produced no module map")
	errNoSwiftSources        = errors.New("binding generator produced no swift sources")
)

// BindingGenerator runs uniffi-bindgen and moves its output into the Swift package.
type BindingGenerator struct {
	runner shell.Runner
	cfg    *config.Config
}

// NewBindingGenerator returns an adapter for the crate described by cfg.
func NewBindingGenerator(runner shell.Runner, cfg *config.Config) *BindingGenerator {
	return &BindingGenerator{runner: runner, cfg: cfg}
}

// Generate produces Swift bindings from the shared library built for the binding target.
// Swift sources land in the package source dir, headers and the module map
// (renamed to module.modulemap) in the headers dir.
func (g *BindingGenerator) Generate(ctx context.Context, built []release.Artifact) ([]release.Artifact, error) {
	target, err := g.bindingTarget(built)
	if err != nil {
		return nil, err
	}

	library := filepath.Join(g.cfg.TargetOutputDir(target), g.cfg.SharedLibraryName())
	outDir := filepath.Join(g.cfg.IOS.StagingDir, "bindings")

	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", release.ErrBuild, outDir, err)
	}

	logger.InfoKV(ctx, "Generating Swift bindings", "library", library, "out_dir", outDir)

	err = g.runner.Run(ctx, nil, "cargo",
		"run",
		"--manifest-path", g.cfg.CargoManifest,
		"--target-dir", g.cfg.TargetDir,
		"--bin", "uniffi-bindgen",
		"--",
		"generate",
		"--library", library,
		"--language", "swift",
		"--out-dir", outDir,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: uniffi-bindgen: %w", release.ErrBuild, err)
	}

	return g.relocate(ctx, outDir)
}

// bindingTarget finds the built target the generator should read.
func (g *BindingGenerator) bindingTarget(built []release.Artifact) (release.BuildTarget, error) {
	for _, a := range release.Filter(built, release.KindStaticLibrary) {
		if a.Target != nil && a.Target.Triple == g.cfg.IOS.BindingLibraryTarget {
			return *a.Target, nil
		}
	}

	return release.BuildTarget{}, fmt.Errorf("%w: %w: %s", release.ErrBuild, errBindingLibraryMissing, g.cfg.IOS.BindingLibraryTarget)
}

// relocate moves generated files from outDir to their permanent locations.
func (g *BindingGenerator) relocate(ctx context.Context, outDir string) ([]release.Artifact, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", release.ErrBuild, outDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	var (
		artifacts    []release.Artifact
		hasModuleMap bool
	)

	for _, name := range names {
		var destination string

		switch strings.ToLower(filepath.Ext(name)) {
		case ".swift":
			destination = filepath.Join(g.cfg.IOS.SourcesDir, name)
		case ".h":
			destination = filepath.Join(g.cfg.IOS.HeadersDir, name)
		case ".modulemap":
			if hasModuleMap {
				return nil, fmt.Errorf("%w: more than one module map in %s", release.ErrBuild, outDir)
			}

			hasModuleMap = true
			destination = filepath.Join(g.cfg.IOS.HeadersDir, ModuleMapFilename)
		default:
			logger.DebugKV(ctx, "Skipping generated file", "file", name)
			continue
		}

		if err = install(filepath.Join(outDir, name), destination); err != nil {
			return nil, fmt.Errorf("%w: relocate %s: %w", release.ErrBuild, name, err)
		}

		logger.DebugKV(ctx, "Relocated generated file", "from", name, "to", destination)

		artifacts = append(artifacts, release.NewAggregateArtifact(release.KindBindingSource, destination))
	}

	if !hasModuleMap {
		return nil, fmt.Errorf("%w: %w", release.ErrBuild, errNoModuleMap)
	}

	if !containsSwift(artifacts) {
		return nil, fmt.Errorf("%w: %w", release.ErrBuild, errNoSwiftSources)
	}

	return artifacts, nil
}

// install atomically replaces destination with source and removes source.
// The checksum is taken from a first pass over the source file and go-update
// checks the bytes it stages against it, so a source that changes or reads
// short between the two passes is rejected and destination is left as it was.
func install(source, destination string) error {
	checksum, err := fileChecksum(source)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	// go-update renames the previous file aside, so an empty one stands in for
	// a first install and is removed again if the update fails.
	created, err := ensureFile(destination)
	if err != nil {
		return err
	}

	if err = apply(source, destination, checksum); err != nil {
		if created {
			_ = os.Remove(destination)
		}

		return err
	}

	oldFileName := filepath.Join(filepath.Dir(destination), "."+filepath.Base(destination)+".old")
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return os.Remove(source)
}

// fileChecksum streams path through installHash.
func fileChecksum(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() { _ = f.Close() }()

	hasher := installHash.New()
	if _, err = io.Copy(hasher, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	return hasher.Sum(nil), nil
}

// ensureFile creates an empty path when none exists and reports whether it did.
func ensureFile(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, installMode)
	if err != nil {
		return false, err
	}

	return true, f.Close()
}

func apply(source, destination string, checksum []byte) error {
	f, err := os.Open(filepath.Clean(source))
	if err != nil {
		return err
	}

	defer func() { _ = f.Close() }()

	return goupdate.Apply(f, goupdate.Options{
		TargetPath: destination,
		TargetMode: installMode,
		Checksum:   checksum,
		Hash:       installHash,
	})
}

func containsSwift(artifacts []release.Artifact) bool {
	for _, a := range artifacts {
		if strings.EqualFold(filepath.Ext(a.Path), ".swift") {
			return true
		}
	}

	return false
}
