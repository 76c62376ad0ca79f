package manifest

import (
	"strconv"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
)

// ApplyRelease points the package manifest at a published release:
// the release tag and checksum declarations get the record's values.
// Applying the same record twice yields the same bytes as applying it once.
func ApplyRelease(contents []byte, decls config.Declarations, record release.ReleaseRecord) ([]byte, error) {
	updated, err := replaceDecl(contents, swiftStringDecl(decls.ReleaseTag), decls.ReleaseTag, quoted(record.Tag))
	if err != nil {
		return nil, err
	}

	return replaceDecl(updated, swiftStringDecl(decls.Checksum), decls.Checksum, quoted(record.Checksum))
}

// ApplyReleaseTag only rewrites the release tag declaration.
func ApplyReleaseTag(contents []byte, decls config.Declarations, version release.SemanticVersion) ([]byte, error) {
	return replaceDecl(contents, swiftStringDecl(decls.ReleaseTag), decls.ReleaseTag, quoted(version.String()))
}

// ApplyLocalSource sets the declaration choosing between the local XCFramework and the released one.
func ApplyLocalSource(contents []byte, decls config.Declarations, local bool) ([]byte, error) {
	return replaceDecl(contents, swiftBoolDecl(decls.LocalSource), decls.LocalSource, strconv.FormatBool(local))
}

// UpdatePackageRelease rewrites the release tag and checksum of the manifest at path.
func UpdatePackageRelease(path string, decls config.Declarations, record release.ReleaseRecord) error {
	return rewriteFile(path, func(contents []byte) ([]byte, error) {
		return ApplyRelease(contents, decls, record)
	})
}

// SetLocalSource rewrites the local-source flag of the manifest at path.
func SetLocalSource(path string, decls config.Declarations, local bool) error {
	return rewriteFile(path, func(contents []byte) ([]byte, error) {
		return ApplyLocalSource(contents, decls, local)
	})
}

func quoted(value string) string {
	return `"` + swiftString(value) + `"`
}
