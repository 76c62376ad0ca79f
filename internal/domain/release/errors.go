package release

import "errors"

// Error kinds. Stage failures wrap exactly one of them so callers can branch with errors.Is.
var (
	// ErrConfiguration marks malformed input such as a bad version string or config value.
	ErrConfiguration = errors.New("configuration error")
	// ErrOrdering marks a release version that is not strictly greater than the latest tag.
	ErrOrdering = errors.New("ordering error")
	// ErrBuild marks a failed compiler, toolchain or binding generator invocation.
	ErrBuild = errors.New("build error")
	// ErrPackaging marks a failed bundle assembly or compression step.
	ErrPackaging = errors.New("packaging error")
	// ErrPublication marks a failed version-control or hosted-release operation.
	ErrPublication = errors.New("publication error")
	// ErrManifest marks a manifest that lacks a declaration the pipeline must rewrite.
	ErrManifest = errors.New("manifest error")
	// ErrBusy marks an attempt to start a pipeline while another one holds the run lock.
	ErrBusy = errors.New("another pipeline is running")
)
