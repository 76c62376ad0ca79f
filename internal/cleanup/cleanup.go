package cleanup

import (
	"context"
	"errors"
	"fmt"

	"github.com/magefile/mage/sh"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/prompt"
	"github.com/oshokin/azan-release/internal/shell"
)

// Scope selects which outputs are removed.
type Scope string

const (
	// ScopeIOS covers the iOS staging dir, XCFramework, its archive and the fat simulator library.
	ScopeIOS Scope = "ios"
	// ScopeAndroid covers the Gradle build caches.
	ScopeAndroid Scope = "android"
	// ScopeAll covers both platforms.
	ScopeAll Scope = "all"
)

// ErrDeclined is returned when the operator does not confirm a global clean.
var ErrDeclined = errors.New("clean-all declined")

// ParseScope converts a command argument into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeIOS, ScopeAndroid, ScopeAll:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("%w: unknown clean scope %q", release.ErrConfiguration, s)
	}
}

// Paths lists the directories and files removed for scope, in removal order.
func Paths(cfg *config.Config, scope Scope) []string {
	ios := []string{
		cfg.IOS.StagingDir,
		cfg.IOS.FrameworkPath,
		cfg.IOS.ArchivePath,
		cfg.FatSimulatorOutputDir,
	}

	switch scope {
	case ScopeIOS:
		return ios
	case ScopeAndroid:
		return append([]string(nil), cfg.Android.BuildDirs...)
	case ScopeAll:
		return append(ios, cfg.Android.BuildDirs...)
	default:
		return nil
	}
}

// Clean removes every path of scope. Missing paths are skipped, so running it
// twice or on a fresh checkout is a no-op.
func Clean(ctx context.Context, cfg *config.Config, scope Scope) error {
	for _, path := range Paths(cfg, scope) {
		if path == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		logger.DebugKV(ctx, "Removing", "path", path)

		if err := sh.Rm(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	return nil
}

// CleanAll asks for confirmation, then removes both platforms' outputs and the
// cargo target directory. Nothing is touched unless the operator agrees.
func CleanAll(ctx context.Context, cfg *config.Config, runner shell.Runner, confirmer prompt.Confirmer) error {
	question := fmt.Sprintf("Remove all build outputs and the native cache in %s?", cfg.TargetDir)

	ok, err := confirmer.Confirm(ctx, question)
	if err != nil {
		return err
	}

	if !ok {
		return ErrDeclined
	}

	if err = Clean(ctx, cfg, ScopeAll); err != nil {
		return err
	}

	logger.Info(ctx, "Purging native toolchain cache")

	err = runner.Run(ctx, nil, "cargo", "clean", "--manifest-path", cfg.CargoManifest, "--target-dir", cfg.TargetDir)
	if err != nil {
		return fmt.Errorf("cargo clean: %w", err)
	}

	return nil
}
