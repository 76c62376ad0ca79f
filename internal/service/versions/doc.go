// Package versions implements validate-version and update-versions: the release
// gate that only admits a well-formed version strictly greater than the latest tag.
package versions
