//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"io"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/lock"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/pipeline"
	"github.com/oshokin/azan-release/internal/shell"
)

// Options carries what every command needs from the CLI. Zero values select
// the real implementations.
type Options struct {
	// ConfigPath is the YAML configuration file (defaults to azan-release.yaml).
	ConfigPath string
	// MarkerPath is the run marker (defaults to .azan-release.lock).
	MarkerPath string
	// Runner executes external tools.
	Runner shell.Runner
	// LookPath resolves executables during preflight.
	LookPath shell.LookPath
	// FindProcess inspects the owner of an existing run marker.
	FindProcess lock.FindProcess
	// Report receives the artifact table; nil disables it.
	Report io.Writer
}

// Session is an opened command: configuration loaded and, for mutating
// commands, the run marker held.
type Session struct {
	Config *config.Config
	Runner shell.Runner

	opts *Options
	lock *lock.Lock
}

// Open loads the configuration. When exclusive is set it also acquires the run marker.
func Open(ctx context.Context, opts *Options, exclusive bool) (*Session, error) {
	if opts == nil {
		opts = new(Options)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecRunner()
	}

	session := &Session{
		Config: cfg,
		Runner: runner,
		opts:   opts,
	}

	if exclusive {
		if session.lock, err = lock.Acquire(ctx, opts.MarkerPath, opts.FindProcess); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// Close releases the run marker. Failures are logged since the command result matters more.
func (s *Session) Close(ctx context.Context) {
	if err := s.lock.Release(); err != nil {
		logger.Warnf(ctx, "Failed to remove run marker: %v", err)
	}
}

// Preflight returns a stage that fails when any of tools is not on PATH.
func (s *Session) Preflight(tools ...shell.Tool) pipeline.Stage {
	return pipeline.Stage{
		Name: "preflight",
		Kind: release.ErrBuild,
		Run: func(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
			logger.DebugKV(ctx, "Checking tools", "count", len(tools))

			return nil, shell.CheckTools(s.opts.LookPath, tools...)
		},
	}
}

// Report logs the produced artifacts and renders them as a table when a writer is set.
func (s *Session) Report(ctx context.Context, result *pipeline.Result) {
	if result == nil {
		return
	}

	for _, a := range result.Artifacts {
		logger.DebugKV(ctx, "Artifact", "kind", string(a.Kind), "path", a.Path, "produced_by", a.ProducedBy())
	}

	if s.opts.Report == nil || len(result.Artifacts) == 0 {
		return
	}

	if err := pipeline.RenderArtifacts(s.opts.Report, result.Artifacts); err != nil {
		logger.WarnKV(ctx, "Failed to render artifact report", "error", err)
	}
}
