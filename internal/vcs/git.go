package vcs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/shell"
)

// Git drives the git CLI in the working directory.
type Git struct {
	runner shell.Runner
	remote string
}

// NewGit returns a Git client pushing to remote.
func NewGit(runner shell.Runner, remote string) *Git {
	if remote == "" {
		remote = "origin"
	}

	return &Git{runner: runner, remote: remote}
}

// Tags lists every tag in the repository.
func (g *Git) Tags(ctx context.Context) ([]string, error) {
	out, err := g.runner.Output(ctx, "git", "tag", "--list")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var tags []string

	for _, line := range strings.Split(out, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

// LatestTag returns the version of the highest tag, or 0.0.0 when there are none.
//
// Tags are ordered as plain strings, so "0.9.0" sorts above "0.10.0". Leading
// non-numeric characters are stripped before the winner is parsed.
func (g *Git) LatestTag(ctx context.Context) (release.SemanticVersion, error) {
	tags, err := g.Tags(ctx)
	if err != nil {
		return release.SemanticVersion{}, err
	}

	return LatestVersion(tags)
}

// LatestVersion picks the highest tag by string order and parses it.
func LatestVersion(tags []string) (release.SemanticVersion, error) {
	if len(tags) == 0 {
		return release.MustParseVersion(release.ZeroVersion), nil
	}

	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)

	latest := sorted[len(sorted)-1]

	v, err := release.ParseVersion(release.StripTagPrefix(latest))
	if err != nil {
		return release.SemanticVersion{}, fmt.Errorf("latest tag %q: %w", latest, err)
	}

	return v, nil
}

// Add stages the given paths.
func (g *Git) Add(ctx context.Context, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)

	return g.runner.Run(ctx, nil, "git", args...)
}

// Commit records the staged changes.
func (g *Git) Commit(ctx context.Context, message string) error {
	return g.runner.Run(ctx, nil, "git", "commit", "-m", message)
}

// Tag creates an annotated tag at HEAD.
func (g *Git) Tag(ctx context.Context, name, message string) error {
	return g.runner.Run(ctx, nil, "git", "tag", "-a", name, "-m", message)
}

// Push pushes the current branch and then the named tag.
func (g *Git) Push(ctx context.Context, tag string) error {
	if err := g.runner.Run(ctx, nil, "git", "push", g.remote, "HEAD"); err != nil {
		return err
	}

	return g.runner.Run(ctx, nil, "git", "push", g.remote, "refs/tags/"+tag)
}
