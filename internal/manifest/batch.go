package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
)

// Edit is a pending rewrite of one file.
type Edit struct {
	Path  string
	Apply func([]byte) ([]byte, error)
	// Optional edits are skipped when the file does not exist.
	Optional bool
}

type staged struct {
	path    string
	updated []byte
}

// RewriteAll applies every edit in memory first and writes the files only when
// all of them succeeded, so a missing declaration in one file leaves every file untouched.
// Unchanged files are not rewritten.
func RewriteAll(edits ...Edit) error {
	pending := make([]staged, 0, len(edits))

	for _, edit := range edits {
		path := filepath.Clean(edit.Path)

		contents, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) && edit.Optional {
			continue
		}

		if err != nil {
			return fmt.Errorf("read manifest %s: %w", path, err)
		}

		updated, err := edit.Apply(contents)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if string(updated) != string(contents) {
			pending = append(pending, staged{path: path, updated: updated})
		}
	}

	for _, p := range pending {
		if err := os.WriteFile(p.path, p.updated, fileMode); err != nil {
			return fmt.Errorf("write manifest %s: %w", p.path, err)
		}
	}

	return nil
}

// VersionEdits returns the edits stamping version into the crate manifest, the
// Swift package release tag and, when gradleProperties is set and present, VERSION_NAME.
func VersionEdits(cargoManifest, packageManifest, gradleProperties string, decls config.Declarations, version release.SemanticVersion) []Edit {
	edits := []Edit{
		{
			Path: cargoManifest,
			Apply: func(contents []byte) ([]byte, error) {
				return ApplyCargoVersion(contents, version)
			},
		},
		{
			Path: packageManifest,
			Apply: func(contents []byte) ([]byte, error) {
				return ApplyReleaseTag(contents, decls, version)
			},
		},
	}

	if gradleProperties != "" {
		edits = append(edits, Edit{
			Path: gradleProperties,
			Apply: func(contents []byte) ([]byte, error) {
				return ApplyGradleVersionName(contents, version)
			},
			Optional: true,
		})
	}

	return edits
}
