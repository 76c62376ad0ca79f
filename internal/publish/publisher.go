package publish

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/manifest"
	"github.com/oshokin/azan-release/internal/shell"
	"github.com/oshokin/azan-release/internal/vcs"
)

// Publisher commits, tags, and pushes a release, then drafts the hosted release.
type Publisher struct {
	cfg    config.Config
	git    *vcs.Git
	github *vcs.GitHub
}

// NewPublisher returns a Publisher working on its own copy of cfg.
// The copy always points consumers at the remote artifact: a release never
// commits a manifest that references a local build.
func NewPublisher(runner shell.Runner, cfg config.Config) *Publisher {
	cfg.UseLocalArtifactSource = false

	return &Publisher{
		cfg:    cfg,
		git:    vcs.NewGit(runner, cfg.GitRemote),
		github: vcs.NewGitHub(runner),
	}
}

// Publish records the release. Any git failure aborts before the hosted release is created.
func (p *Publisher) Publish(ctx context.Context, record release.ReleaseRecord, inputs []release.Artifact) error {
	archive, err := compressedBundle(inputs)
	if err != nil {
		return err
	}

	err = manifest.SetLocalSource(p.cfg.IOS.PackageManifest, p.cfg.IOS.Declarations, p.cfg.UseLocalArtifactSource)
	if err != nil {
		return fmt.Errorf("reset local source flag: %w", err)
	}

	message := "Release " + record.Version.String()

	logger.InfoKV(ctx, "Committing release", "tag", record.Tag, "remote", p.cfg.GitRemote)

	if err = p.git.Add(ctx, p.releaseFiles()...); err != nil {
		return fmt.Errorf("%w: stage release files: %w", release.ErrPublication, err)
	}

	if err = p.git.Commit(ctx, message); err != nil {
		return fmt.Errorf("%w: commit: %w", release.ErrPublication, err)
	}

	if err = p.git.Tag(ctx, record.Tag, message); err != nil {
		return fmt.Errorf("%w: tag %s: %w", release.ErrPublication, record.Tag, err)
	}

	if err = p.git.Push(ctx, record.Tag); err != nil {
		return fmt.Errorf("%w: push: %w", release.ErrPublication, err)
	}

	logger.InfoKV(ctx, "Drafting hosted release", "tag", record.Tag, "asset", archive.Path)

	if err = p.github.CreateDraftRelease(ctx, record.Tag, archive.Path); err != nil {
		return fmt.Errorf("%w: draft release %s: %w", release.ErrPublication, record.Tag, err)
	}

	return nil
}

// releaseFiles lists the manifest and native version files that exist in the checkout.
func (p *Publisher) releaseFiles() []string {
	files := []string{p.cfg.IOS.PackageManifest, p.cfg.CargoManifest}

	for _, optional := range []string{p.cfg.CargoLock, p.cfg.Android.GradleProperties} {
		if optional == "" {
			continue
		}

		if _, err := os.Stat(optional); err == nil {
			files = append(files, optional)
		}
	}

	return files
}
