package bundle

import (
	"context"
	"errors"
	"fmt"

	"github.com/magefile/mage/sh"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/shell"
)

var (
	errNoDeviceLibrary    = errors.New("no device static library to package")
	errNoSimulatorLibrary = errors.New("no simulator static library to package")
	errExtraDeviceLibrary = errors.New("more than one device static library")
)

// Packager turns compiled libraries into distributable bundles.
type Packager struct {
	runner shell.Runner
	cfg    *config.Config
}

// NewPackager returns a Packager for the layout described by cfg.
func NewPackager(runner shell.Runner, cfg *config.Config) *Packager {
	return &Packager{runner: runner, cfg: cfg}
}

// AssembleFramework creates the XCFramework from the device library and the
// simulator library, each paired with the generated headers and module map.
// A fat simulator library is preferred over a single-architecture one.
// Any previous framework at the output path is removed first.
func (p *Packager) AssembleFramework(ctx context.Context, inputs []release.Artifact) (release.Artifact, error) {
	device, simulator, err := frameworkSlices(inputs)
	if err != nil {
		return release.Artifact{}, fmt.Errorf("%w: %w", release.ErrPackaging, err)
	}

	output := p.cfg.IOS.FrameworkPath

	if err = sh.Rm(output); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: remove stale %s: %w", release.ErrPackaging, output, err)
	}

	logger.InfoKV(ctx, "Creating XCFramework", "device", device, "simulator", simulator, "output", output)

	err = p.runner.Run(ctx, nil, "xcodebuild",
		"-create-xcframework",
		"-library", device,
		"-headers", p.cfg.IOS.HeadersDir,
		"-library", simulator,
		"-headers", p.cfg.IOS.HeadersDir,
		"-output", output,
	)
	if err != nil {
		return release.Artifact{}, fmt.Errorf("%w: xcodebuild: %w", release.ErrPackaging, err)
	}

	return release.NewAggregateArtifact(release.KindFrameworkBundle, output), nil
}

// frameworkSlices picks the library path for each XCFramework slice.
// The device slice is never merged, so a second device library is an error.
func frameworkSlices(inputs []release.Artifact) (string, string, error) {
	var device, simulator string

	for _, a := range release.Filter(inputs, release.KindStaticLibrary) {
		if a.Target == nil || a.Target.Platform != release.PlatformIOS {
			continue
		}

		switch a.Target.Class {
		case release.ClassDevice:
			if device != "" {
				return "", "", fmt.Errorf("%w: %s and %s", errExtraDeviceLibrary, device, a.Path)
			}

			device = a.Path
		case release.ClassSimulator:
			if simulator == "" {
				simulator = a.Path
			}
		}
	}

	if fat := release.Filter(inputs, release.KindFatStaticLibrary); len(fat) > 0 {
		simulator = fat[len(fat)-1].Path
	}

	if device == "" {
		return "", "", errNoDeviceLibrary
	}

	if simulator == "" {
		return "", "", errNoSimulatorLibrary
	}

	return device, simulator, nil
}
