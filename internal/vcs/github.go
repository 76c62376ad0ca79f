package vcs

import (
	"context"

	"github.com/oshokin/azan-release/internal/shell"
)

// GitHub creates hosted releases through the gh CLI.
type GitHub struct {
	runner shell.Runner
}

// NewGitHub returns a hosted-release client.
func NewGitHub(runner shell.Runner) *GitHub {
	return &GitHub{runner: runner}
}

// CreateDraftRelease creates a draft release for tag with generated notes and attaches assets.
func (g *GitHub) CreateDraftRelease(ctx context.Context, tag string, assets ...string) error {
	args := []string{"release", "create", tag}
	args = append(args, assets...)
	args = append(args, "--draft", "--generate-notes", "--title", tag, "--verify-tag")

	return g.runner.Run(ctx, nil, "gh", args...)
}
