package release

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ZeroVersion is reported as the latest version when the repository has no tags.
const ZeroVersion = "0.0.0"

// versionPattern accepts exactly three dot-separated decimal components.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// SemanticVersion is a release version without pre-release or build metadata.
type SemanticVersion struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion validates input and converts it into a SemanticVersion.
// Anything other than MAJOR.MINOR.PATCH fails with ErrConfiguration.
// Components may carry leading zeros, so "01.2.3" is 1.2.3.
func ParseVersion(input string) (SemanticVersion, error) {
	groups := versionPattern.FindStringSubmatch(input)
	if groups == nil {
		return SemanticVersion{}, fmt.Errorf("%w: version %q must match MAJOR.MINOR.PATCH", ErrConfiguration, input)
	}

	// Leading zeros are legal here but not in strict semver, so each component
	// is normalized before semver handles the numeric conversion and overflow.
	parts := make([]string, 0, len(groups)-1)
	for _, part := range groups[1:] {
		part = strings.TrimLeft(part, "0")
		if part == "" {
			part = "0"
		}

		parts = append(parts, part)
	}

	parsed, err := semver.StrictNewVersion(strings.Join(parts, "."))
	if err != nil {
		return SemanticVersion{}, fmt.Errorf("%w: version %q: %w", ErrConfiguration, input, err)
	}

	return SemanticVersion{
		Major: parsed.Major(),
		Minor: parsed.Minor(),
		Patch: parsed.Patch(),
	}, nil
}

// MustParseVersion is ParseVersion for constants; it panics on malformed input.
func MustParseVersion(input string) SemanticVersion {
	v, err := ParseVersion(input)
	if err != nil {
		panic(err)
	}

	return v
}

// String renders the version as MAJOR.MINOR.PATCH.
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsGreater reports whether candidate is strictly greater than latest.
// Components are compared in order and the first difference decides; equal versions are not greater.
func IsGreater(candidate, latest SemanticVersion) bool {
	switch {
	case candidate.Major > latest.Major:
		return true
	case candidate.Major < latest.Major:
		return false
	case candidate.Minor > latest.Minor:
		return true
	case candidate.Minor < latest.Minor:
		return false
	default:
		return candidate.Patch > latest.Patch
	}
}

// StripTagPrefix drops any leading non-digit characters, so "v1.2.3" and
// "release-1.2.3" both become "1.2.3".
func StripTagPrefix(tag string) string {
	return strings.TrimLeftFunc(strings.TrimSpace(tag), func(r rune) bool {
		return r < '0' || r > '9'
	})
}

// CheckNewer validates candidate and requires it to be strictly greater than latest.
// Malformed input yields ErrConfiguration, a non-increasing version ErrOrdering.
func CheckNewer(candidate string, latest SemanticVersion) (SemanticVersion, error) {
	v, err := ParseVersion(candidate)
	if err != nil {
		return SemanticVersion{}, err
	}

	if !IsGreater(v, latest) {
		return SemanticVersion{}, fmt.Errorf("%w: version %s must be greater than the latest tag %s", ErrOrdering, v, latest)
	}

	return v, nil
}
