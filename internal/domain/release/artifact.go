package release

// ArtifactKind describes what a pipeline stage produced.
type ArtifactKind string

const (
	KindStaticLibrary    ArtifactKind = "static-library"
	KindFatStaticLibrary ArtifactKind = "fat-static-library"
	KindBindingSource    ArtifactKind = "binding-source"
	KindFrameworkBundle  ArtifactKind = "framework-bundle"
	KindArchiveBundle    ArtifactKind = "archive-bundle"
	KindCompressedBundle ArtifactKind = "compressed-bundle"
)

// Aggregate is the producer name of artifacts built from several targets.
const Aggregate = "aggregate"

// Artifact is a file or directory produced by one stage and consumed by the next.
// Stages never modify an artifact after creating it.
type Artifact struct {
	Kind ArtifactKind
	Path string
	// Target is set when a single target produced the artifact.
	Target *BuildTarget
}

// NewTargetArtifact records an artifact produced by one build target.
func NewTargetArtifact(kind ArtifactKind, path string, target BuildTarget) Artifact {
	return Artifact{
		Kind:   kind,
		Path:   path,
		Target: &target,
	}
}

// NewAggregateArtifact records an artifact assembled from several inputs.
func NewAggregateArtifact(kind ArtifactKind, path string) Artifact {
	return Artifact{
		Kind: kind,
		Path: path,
	}
}

// ProducedBy names the target or reports Aggregate.
func (a Artifact) ProducedBy() string {
	if a.Target == nil {
		return Aggregate
	}

	return a.Target.String()
}

// Filter returns the artifacts of the given kind in their original order.
func Filter(artifacts []Artifact, kind ArtifactKind) []Artifact {
	var result []Artifact

	for _, a := range artifacts {
		if a.Kind == kind {
			result = append(result, a)
		}
	}

	return result
}

// ReleaseRecord is what a published release leaves behind in the manifest and tag namespace.
type ReleaseRecord struct {
	Version  SemanticVersion
	Checksum string
	Tag      string
}

// NewReleaseRecord builds a record whose tag is exactly the version string.
func NewReleaseRecord(version SemanticVersion, checksum string) ReleaseRecord {
	return ReleaseRecord{
		Version:  version,
		Checksum: checksum,
		Tag:      version.String(),
	}
}
