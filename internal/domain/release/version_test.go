package release

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseVersionRoundTrip verifies well-formed triples parse and render back unchanged.
func TestParseVersionRoundTrip(t *testing.T) {
	t.Parallel()

	for _, triple := range [][3]uint64{{0, 0, 0}, {0, 1, 0}, {1, 2, 3}, {10, 20, 30}, {2025, 0, 17}} {
		input := fmt.Sprintf("%d.%d.%d", triple[0], triple[1], triple[2])

		v, err := ParseVersion(input)
		require.NoError(t, err, input)
		require.Equal(t, SemanticVersion{Major: triple[0], Minor: triple[1], Patch: triple[2]}, v)
		require.Equal(t, input, v.String())
	}
}

// TestParseVersionLeadingZeros accepts zero-padded components as their numeric value.
func TestParseVersionLeadingZeros(t *testing.T) {
	t.Parallel()

	cases := map[string]SemanticVersion{
		"01.2.3":   {Major: 1, Minor: 2, Patch: 3},
		"0.00.1":   {Major: 0, Minor: 0, Patch: 1},
		"1.02.003": {Major: 1, Minor: 2, Patch: 3},
		"00.0.0":   {},
	}

	for input, want := range cases {
		v, err := ParseVersion(input)
		require.NoError(t, err, input)
		require.Equal(t, want, v, input)
	}

	_, err := ParseVersion("99999999999999999999.0.0")
	require.ErrorIs(t, err, ErrConfiguration)
}

// TestParseVersionRejectsMalformed ensures anything but MAJOR.MINOR.PATCH is a configuration error.
func TestParseVersionRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "1.2", "1.2.3.4", "1.2.x", "v1.2.3", "1.2.3-beta", "1.2.3+build", " 1.2.3", "1.2.3\n", "-1.2.3"} {
		_, err := ParseVersion(input)
		require.ErrorIs(t, err, ErrConfiguration, "input %q", input)
	}
}

// TestIsGreater checks the strict lexicographic ordering over major, minor and patch.
func TestIsGreater(t *testing.T) {
	t.Parallel()

	cases := []struct {
		candidate, latest string
		want              bool
	}{
		{"1.2.3", "1.2.3", false},
		{"1.3.0", "1.2.9", true},
		{"2.0.0", "1.9.9", true},
		{"1.2.2", "1.2.3", false},
		{"1.2.4", "1.2.3", true},
		{"0.10.0", "0.9.0", true},
		{"1.0.0", "2.0.0", false},
		{"1.1.9", "1.2.0", false},
		{"0.0.1", "0.0.0", true},
	}

	for _, tc := range cases {
		got := IsGreater(MustParseVersion(tc.candidate), MustParseVersion(tc.latest))
		require.Equal(t, tc.want, got, "%s > %s", tc.candidate, tc.latest)
	}
}

// TestStripTagPrefix ensures leading non-numeric characters are dropped.
func TestStripTagPrefix(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1.2.3", StripTagPrefix("v1.2.3"))
	require.Equal(t, "1.2.3", StripTagPrefix("release-1.2.3"))
	require.Equal(t, "1.2.3", StripTagPrefix("1.2.3"))
	require.Empty(t, StripTagPrefix("latest"))
}

// TestCheckNewer distinguishes malformed input from a non-increasing version.
func TestCheckNewer(t *testing.T) {
	t.Parallel()

	latest := MustParseVersion("0.2.0")

	_, err := CheckNewer("0.2", latest)
	require.ErrorIs(t, err, ErrConfiguration)
	require.NotErrorIs(t, err, ErrOrdering)

	_, err = CheckNewer("0.2.0", latest)
	require.ErrorIs(t, err, ErrOrdering)
	require.Contains(t, err.Error(), "0.2.0")

	v, err := CheckNewer("0.3.0", latest)
	require.NoError(t, err)
	require.Equal(t, "0.3.0", v.String())
}
