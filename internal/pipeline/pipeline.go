package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
)

// StepFunc runs one stage. It sees every artifact produced by earlier stages
// and returns the artifacts it created.
type StepFunc func(ctx context.Context, inputs []release.Artifact) ([]release.Artifact, error)

// Stage is a named fallible step. Kind is the error kind reported when Run fails.
type Stage struct {
	Name string
	Kind error
	Run  StepFunc
}

// StageError reports which stage aborted the pipeline.
// errors.Is matches both its Kind and the underlying cause.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %q failed: %v", e.Stage, e.Err)
}

// Unwrap exposes the kind and the cause to errors.Is and errors.As.
func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Result is what a pipeline run leaves behind.
type Result struct {
	// Artifacts holds everything produced by completed stages, in production order.
	Artifacts []release.Artifact
	// Completed lists the names of stages that finished.
	Completed []string
}

// Run executes stages in order and stops at the first failure.
// Stages after the failing one never start; the artifacts produced so far are
// still returned for reporting.
func Run(ctx context.Context, stages []Stage) (*Result, error) {
	result := new(Result)

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return result, &StageError{Stage: stage.Name, Kind: stage.Kind, Err: err}
		}

		stageCtx := logger.WithFields(ctx, "stage", stage.Name, "kind", kindName(stage.Kind))
		started := time.Now()

		logger.Info(stageCtx, "Stage started")

		produced, err := stage.Run(stageCtx, result.Artifacts)
		if err != nil {
			logger.ErrorKV(stageCtx, "Stage failed", "error", err)

			return result, wrap(stage, err)
		}

		result.Artifacts = append(result.Artifacts, produced...)
		result.Completed = append(result.Completed, stage.Name)

		logger.InfoKV(stageCtx, "Stage finished",
			"artifacts", len(produced), "elapsed", time.Since(started).Round(time.Millisecond).String())
	}

	return result, nil
}

// wrap attaches the stage's kind unless the step already reported a more precise one.
func wrap(stage Stage, err error) error {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return err
	}

	kind := stage.Kind
	for _, known := range []error{
		release.ErrConfiguration,
		release.ErrOrdering,
		release.ErrManifest,
		release.ErrBusy,
		release.ErrPublication,
	} {
		if errors.Is(err, known) {
			kind = known
			break
		}
	}

	return &StageError{Stage: stage.Name, Kind: kind, Err: err}
}

func kindName(kind error) string {
	if kind == nil {
		return "unspecified"
	}

	return kind.Error()
}
