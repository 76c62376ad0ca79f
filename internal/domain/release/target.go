package release

import "fmt"

// Platform identifies the mobile platform a target is built for.
type Platform string

const (
	// PlatformIOS is packaged as an XCFramework and consumed through Swift Package Manager.
	PlatformIOS Platform = "ios"
	// PlatformAndroid is packaged as an AAR by Gradle.
	PlatformAndroid Platform = "android"
)

// BuildMode selects the compiler profile.
type BuildMode string

const (
	// ModeDebug builds without optimizations.
	ModeDebug BuildMode = "debug"
	// ModeRelease builds the optimized profile.
	ModeRelease BuildMode = "release"
)

// TargetClass groups iOS triples that end up in the same XCFramework slice.
type TargetClass string

const (
	// ClassDevice is a physical device slice.
	ClassDevice TargetClass = "device"
	// ClassSimulator is a simulator slice; several triples are merged into one fat library.
	ClassSimulator TargetClass = "simulator"
	// ClassAndroid marks targets compiled by the Android build tool.
	ClassAndroid TargetClass = "android"
)

// BuildTarget is one cell of the target matrix. It is immutable once created.
type BuildTarget struct {
	Platform Platform
	Triple   string
	Class    TargetClass
	Mode     BuildMode
}

// String renders the target as platform/triple (mode).
func (t BuildTarget) String() string {
	return fmt.Sprintf("%s/%s (%s)", t.Platform, t.Triple, t.Mode)
}

// ParseBuildMode converts a flag value into a BuildMode.
func ParseBuildMode(s string) (BuildMode, error) {
	switch BuildMode(s) {
	case ModeDebug:
		return ModeDebug, nil
	case ModeRelease:
		return ModeRelease, nil
	default:
		return "", fmt.Errorf("%w: unknown build mode %q", ErrConfiguration, s)
	}
}

// Matrix lists the triples built for each platform class.
type Matrix struct {
	IOSDevice    []string
	IOSSimulator []string
	Android      []string
}

// DefaultMatrix returns the triples the native core is shipped for.
func DefaultMatrix() Matrix {
	return Matrix{
		IOSDevice:    []string{"aarch64-apple-ios"},
		IOSSimulator: []string{"aarch64-apple-ios-sim", "x86_64-apple-ios"},
		Android: []string{
			"aarch64-linux-android",
			"armv7-linux-androideabi",
			"i686-linux-android",
			"x86_64-linux-android",
		},
	}
}

// Targets expands the matrix for one platform into immutable BuildTargets.
func (m Matrix) Targets(platform Platform, mode BuildMode) []BuildTarget {
	var targets []BuildTarget

	add := func(class TargetClass, triples []string) {
		for _, triple := range triples {
			targets = append(targets, BuildTarget{
				Platform: platform,
				Triple:   triple,
				Class:    class,
				Mode:     mode,
			})
		}
	}

	switch platform {
	case PlatformIOS:
		add(ClassDevice, m.IOSDevice)
		add(ClassSimulator, m.IOSSimulator)
	case PlatformAndroid:
		add(ClassAndroid, m.Android)
	}

	return targets
}
