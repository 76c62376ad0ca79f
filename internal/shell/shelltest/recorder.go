// Package shelltest provides a recording shell.Runner for tests.
package shelltest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/oshokin/azan-release/internal/shell"
)

// ErrCommandFailed is what a scripted failure returns.
var ErrCommandFailed = errors.New("exit status 1")

// Call is one recorded invocation.
type Call struct {
	Env  map[string]string
	Name string
	Args []string
}

// Line renders the call like a shell command line.
func (c Call) Line() string {
	return shell.CommandLine(c.Name, c.Args...)
}

// Recorder records calls and answers them from scripted rules.
// A rule matches when the command line starts with its prefix; the first match wins.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	failures []string
	outputs  map[string]string
	effects  []effect
}

type effect struct {
	prefix string
	fn     func(Call) error
}

// New returns an empty Recorder where every command succeeds.
func New() *Recorder {
	return &Recorder{
		outputs: make(map[string]string),
	}
}

// FailOn makes every command line starting with prefix fail.
func (r *Recorder) FailOn(prefix string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = append(r.failures, prefix)

	return r
}

// Respond sets the stdout Output returns for an exact command line.
func (r *Recorder) Respond(line, stdout string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outputs[line] = stdout

	return r
}

// OnRun runs fn for matching Run calls, e.g. to create the files a tool would emit.
func (r *Recorder) OnRun(prefix string, fn func(Call) error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.effects = append(r.effects, effect{prefix: prefix, fn: fn})

	return r
}

// Run implements shell.Runner.
func (r *Recorder) Run(ctx context.Context, env map[string]string, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	call := r.record(env, name, args)
	if r.failing(call.Line()) {
		return ErrCommandFailed
	}

	r.mu.Lock()
	effects := append([]effect(nil), r.effects...)
	r.mu.Unlock()

	for _, e := range effects {
		if strings.HasPrefix(call.Line(), e.prefix) {
			return e.fn(call)
		}
	}

	return nil
}

// Output implements shell.Runner.
func (r *Recorder) Output(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	call := r.record(nil, name, args)
	if r.failing(call.Line()) {
		return "", ErrCommandFailed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.outputs[call.Line()], nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, 0, len(calls))

	for _, c := range calls {
		lines = append(lines, c.Line())
	}

	return lines
}

// Ran reports whether any recorded command line starts with prefix.
func (r *Recorder) Ran(prefix string) bool {
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

func (r *Recorder) record(env map[string]string, name string, args []string) Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{Env: env, Name: name, Args: append([]string(nil), args...)}
	r.calls = append(r.calls, call)

	return call
}

func (r *Recorder) failing(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, prefix := range r.failures {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}
