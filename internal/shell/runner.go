package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/magefile/mage/sh"

	"github.com/oshokin/azan-release/internal/logger"
)

// Runner executes external tools. Implementations stream the tool's own output
// unmodified and report a non-zero exit as an error.
type Runner interface {
	// Run executes name with args and extra environment, streaming stdout/stderr.
	Run(ctx context.Context, env map[string]string, name string, args ...string) error
	// Output executes name with args and returns its trimmed stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through mage's sh helpers.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithStreams redirects the tool output, mostly for tests.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		if stdout != nil {
			r.stdout = stdout
		}

		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// NewExecRunner returns a runner bound to the process stdout and stderr.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, env map[string]string, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Running command", "command", CommandLine(name, args...))

	ran, err := sh.Exec(env, r.stdout, r.stderr, name, args...)
	if err != nil {
		if !ran {
			return fmt.Errorf("start %s: %w", name, err)
		}

		return fmt.Errorf("%s exited with status %d: %w", CommandLine(name, args...), sh.ExitStatus(err), err)
	}

	return nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.DebugKV(ctx, "Running command", "command", CommandLine(name, args...))

	out, err := sh.Output(name, args...)
	if err != nil {
		return "", fmt.Errorf("%s exited with status %d: %w", CommandLine(name, args...), sh.ExitStatus(err), err)
	}

	return strings.TrimSpace(out), nil
}

// CommandLine renders a command for logs and error messages.
func CommandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
