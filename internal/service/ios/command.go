package ios

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/azan-release/internal/bundle"
	"github.com/oshokin/azan-release/internal/cleanup"
	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/manifest"
	"github.com/oshokin/azan-release/internal/native"
	"github.com/oshokin/azan-release/internal/pipeline"
	"github.com/oshokin/azan-release/internal/publish"
	"github.com/oshokin/azan-release/internal/service/common"
	"github.com/oshokin/azan-release/internal/service/versions"
	"github.com/oshokin/azan-release/internal/shell"
)

// Options contains inputs for build-ios.
type Options struct {
	common.Options
	// Release publishes the XCFramework after building it.
	Release bool
	// Debug builds the libraries without optimizations. Not allowed with Release.
	Debug bool
}

var errDebugRelease = errors.New("a release cannot be built in debug mode")

// run holds the state threaded through the stages of one invocation.
type run struct {
	session *common.Session
	cfg     *config.Config
	mode    release.BuildMode

	builder  *native.Builder
	bindings *native.BindingGenerator
	packager *bundle.Packager

	version release.SemanticVersion
	record  release.ReleaseRecord
}

// Run executes the iOS pipeline and stops at the first failing stage.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "build-ios")

	if opts.Release && opts.Debug {
		return fmt.Errorf("%w: %w", release.ErrConfiguration, errDebugRelease)
	}

	session, err := common.Open(ctx, &opts.Options, true)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	r := &run{
		session:  session,
		cfg:      session.Config,
		mode:     release.ModeRelease,
		builder:  native.NewBuilder(session.Runner, session.Config),
		bindings: native.NewBindingGenerator(session.Runner, session.Config),
		packager: bundle.NewPackager(session.Runner, session.Config),
	}

	if opts.Debug {
		r.mode = release.ModeDebug
	}

	logger.InfoKV(ctx, "Starting iOS pipeline", "mode", string(r.mode), "release", opts.Release)

	result, err := pipeline.Run(ctx, r.stages(opts.Release))
	session.Report(ctx, result)

	if err != nil {
		return err
	}

	if opts.Release {
		logger.InfoKV(ctx, "Release drafted", "tag", r.record.Tag, "checksum", r.record.Checksum)
	} else {
		logger.InfoKV(ctx, "XCFramework ready", "path", r.cfg.IOS.FrameworkPath)
	}

	return nil
}

// stages lists the pipeline in dependency order.
func (r *run) stages(publishing bool) []pipeline.Stage {
	tools := []shell.Tool{
		{Name: "cargo", Purpose: "native build and binding generation"},
		{Name: "lipo", Purpose: "fat simulator library"},
		{Name: "xcodebuild", Purpose: "XCFramework assembly"},
	}

	if publishing {
		tools = append(tools,
			shell.Tool{Name: "git", Purpose: "release commit and tag"},
			shell.Tool{Name: "gh", Purpose: "hosted release"},
		)
	}

	stages := []pipeline.Stage{r.session.Preflight(tools...)}

	if publishing {
		stages = append(stages, pipeline.Stage{Name: "validate-version", Kind: release.ErrConfiguration, Run: r.gate})
	}

	stages = append(stages,
		pipeline.Stage{Name: "clean", Kind: release.ErrBuild, Run: r.clean},
		pipeline.Stage{Name: "compile", Kind: release.ErrBuild, Run: r.compile},
		pipeline.Stage{Name: "combine", Kind: release.ErrPackaging, Run: r.combine},
		pipeline.Stage{Name: "bindings", Kind: release.ErrBuild, Run: r.bindings.Generate},
		pipeline.Stage{Name: "xcframework", Kind: release.ErrPackaging, Run: single(r.packager.AssembleFramework)},
	)

	if !publishing {
		return append(stages, pipeline.Stage{Name: "local-source", Kind: release.ErrManifest, Run: r.localSource})
	}

	return append(stages,
		pipeline.Stage{Name: "compress", Kind: release.ErrPackaging, Run: single(r.packager.Compress)},
		pipeline.Stage{Name: "update-manifest", Kind: release.ErrManifest, Run: r.updateManifest},
		pipeline.Stage{Name: "publish", Kind: release.ErrPublication, Run: r.publish},
	)
}

// gate reads the version stamped by update-versions and checks it against the latest tag.
func (r *run) gate(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
	stamped, err := manifest.CargoVersion(r.cfg.CargoManifest)
	if err != nil {
		return nil, err
	}

	r.version, err = versions.Gate(ctx, r.session.Runner, r.cfg, stamped.String())

	return nil, err
}

func (r *run) clean(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
	return nil, cleanup.Clean(ctx, r.cfg, cleanup.ScopeIOS)
}

func (r *run) compile(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
	return r.builder.BuildTargets(ctx, r.cfg.Matrix().Targets(release.PlatformIOS, r.mode))
}

// combine merges the simulator slices. A single simulator triple is packaged as is.
func (r *run) combine(ctx context.Context, inputs []release.Artifact) ([]release.Artifact, error) {
	var simulators []release.Artifact

	for _, a := range release.Filter(inputs, release.KindStaticLibrary) {
		if a.Target != nil && a.Target.Class == release.ClassSimulator {
			simulators = append(simulators, a)
		}
	}

	if len(simulators) < 2 {
		logger.Info(ctx, "Single simulator target, nothing to combine")
		return nil, nil
	}

	fat, err := r.builder.CombineFat(ctx, simulators)
	if err != nil {
		return nil, err
	}

	return []release.Artifact{fat}, nil
}

// localSource points local consumers of a development build at the fresh XCFramework.
func (r *run) localSource(ctx context.Context, _ []release.Artifact) ([]release.Artifact, error) {
	logger.InfoKV(ctx, "Setting local source flag", "value", r.cfg.UseLocalArtifactSource)

	return nil, manifest.SetLocalSource(r.cfg.IOS.PackageManifest, r.cfg.IOS.Declarations, r.cfg.UseLocalArtifactSource)
}

func (r *run) updateManifest(ctx context.Context, inputs []release.Artifact) ([]release.Artifact, error) {
	record, err := publish.RecordRelease(ctx, r.cfg, r.version, inputs)
	if err != nil {
		return nil, err
	}

	r.record = record

	return nil, nil
}

func (r *run) publish(ctx context.Context, inputs []release.Artifact) ([]release.Artifact, error) {
	return nil, publish.NewPublisher(r.session.Runner, *r.cfg).Publish(ctx, r.record, inputs)
}

// single adapts a step producing one artifact to a pipeline.StepFunc.
func single(step func(context.Context, []release.Artifact) (release.Artifact, error)) pipeline.StepFunc {
	return func(ctx context.Context, inputs []release.Artifact) ([]release.Artifact, error) {
		artifact, err := step(ctx, inputs)
		if err != nil {
			return nil, err
		}

		return []release.Artifact{artifact}, nil
	}
}
