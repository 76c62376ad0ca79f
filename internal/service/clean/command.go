package clean

import (
	"context"
	"errors"
	"os"

	"github.com/oshokin/azan-release/internal/cleanup"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/prompt"
	"github.com/oshokin/azan-release/internal/service/common"
)

// Options contains inputs for the clean commands.
type Options struct {
	common.Options
	// Scope limits clean to one platform; empty means both.
	Scope string
	// Confirmer answers the clean-all question; nil asks on the terminal.
	Confirmer prompt.Confirmer
}

// Run removes the build outputs of the selected scope without asking.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "clean")

	scope := cleanup.ScopeAll
	if opts.Scope != "" {
		var err error

		if scope, err = cleanup.ParseScope(opts.Scope); err != nil {
			return err
		}
	}

	session, err := common.Open(ctx, &opts.Options, true)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	if err = cleanup.Clean(ctx, session.Config, scope); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Build outputs removed", "scope", string(scope))

	return nil
}

// RunAll removes every output and the native cache once the operator confirms.
// A refusal is not an error: nothing is removed.
func RunAll(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "clean-all")

	session, err := common.Open(ctx, &opts.Options, true)
	if err != nil {
		return err
	}
	defer session.Close(ctx)

	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = prompt.NewTerminal(os.Stdin, os.Stderr)
	}

	err = cleanup.CleanAll(ctx, session.Config, session.Runner, confirmer)
	if errors.Is(err, cleanup.ErrDeclined) {
		logger.Info(ctx, "Nothing removed")
		return nil
	}

	if err != nil {
		return err
	}

	logger.Info(ctx, "All build outputs and the native cache removed")

	return nil
}
