package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/oshokin/azan-release/internal/domain/release"
)

var (
	// packageHeader matches the [package] table header.
	packageHeader = regexp.MustCompile(`(?m)^[ \t]*\[package\][ \t]*(?:#.*)?$`)
	// tableHeader matches any table or array-of-tables header.
	tableHeader = regexp.MustCompile(`(?m)^[ \t]*\[`)
	// cargoVersion matches the version key of a table.
	cargoVersion = regexp.MustCompile(`(?m)^([ \t]*version[ \t]*=[ \t]*)"[^"\n]*"([ \t]*(?:#.*)?)$`)

	errNoPackageTable = errors.New("no [package] table")
)

// cargoManifest is the part of Cargo.toml the pipeline reads back.
type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// CargoVersion returns the crate's [package] version.
func CargoVersion(path string) (release.SemanticVersion, error) {
	var m cargoManifest
	if _, err := toml.DecodeFile(filepath.Clean(path), &m); err != nil {
		return release.SemanticVersion{}, fmt.Errorf("decode %s: %w", path, err)
	}

	if m.Package.Version == "" {
		return release.SemanticVersion{}, fmt.Errorf("%w: %s has no [package] version", release.ErrManifest, path)
	}

	return release.ParseVersion(m.Package.Version)
}

// ApplyCargoVersion rewrites the version key inside [package] only.
// Dependency tables with their own version keys are left alone.
func ApplyCargoVersion(contents []byte, version release.SemanticVersion) ([]byte, error) {
	header := packageHeader.FindIndex(contents)
	if header == nil {
		return nil, fmt.Errorf("%w: %w", release.ErrManifest, errNoPackageTable)
	}

	start := header[1]
	end := len(contents)

	if next := tableHeader.FindIndex(contents[start:]); next != nil {
		end = start + next[0]
	}

	section, err := replaceDecl(contents[start:end], cargoVersion, "package.version", quoted(version.String()))
	if err != nil {
		return nil, err
	}

	updated := make([]byte, 0, len(contents)+len(section)-(end-start))
	updated = append(updated, contents[:start]...)
	updated = append(updated, section...)
	updated = append(updated, contents[end:]...)

	// Read the result back so a malformed rewrite never reaches the disk.
	var m cargoManifest
	if _, err = toml.Decode(string(updated), &m); err != nil {
		return nil, fmt.Errorf("%w: rewritten manifest does not parse: %w", release.ErrManifest, err)
	}

	if m.Package.Version != version.String() {
		return nil, fmt.Errorf("%w: package version reads back as %q", release.ErrManifest, m.Package.Version)
	}

	return updated, nil
}

// ApplyGradleVersionName rewrites VERSION_NAME in a gradle.properties file.
func ApplyGradleVersionName(contents []byte, version release.SemanticVersion) ([]byte, error) {
	return replaceDecl(contents, propertyDecl("VERSION_NAME"), "VERSION_NAME", version.String())
}
