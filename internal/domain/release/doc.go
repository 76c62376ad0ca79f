// Package release contains the core domain types of the release pipeline.
//
// It defines SemanticVersion (with strict parsing and a total order),
// BuildTarget and the static target matrix, Artifact records passed between
// pipeline stages, ReleaseRecord, and the sentinel error kinds every stage
// reports failures with.
package release
