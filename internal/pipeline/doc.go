// Package pipeline runs release stages as a linear, fail-fast sequence.
//
// Each Stage is a fallible step that receives the artifacts produced so far.
// The first failure stops the run and is returned as a StageError tagged with
// the stage's error kind; there are no retries and no rollback.
package pipeline
