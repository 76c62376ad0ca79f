package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/azan-release/internal/config"
	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
	"github.com/oshokin/azan-release/internal/manifest"
)

var errNoCompressedBundle = errors.New("no compressed bundle to checksum")

// RecordRelease checksums the compressed bundle among inputs and points the
// package manifest's release tag and checksum declarations at it.
func RecordRelease(
	ctx context.Context,
	cfg *config.Config,
	version release.SemanticVersion,
	inputs []release.Artifact,
) (release.ReleaseRecord, error) {
	archive, err := compressedBundle(inputs)
	if err != nil {
		return release.ReleaseRecord{}, err
	}

	checksum, err := manifest.FileChecksum(archive.Path)
	if err != nil {
		return release.ReleaseRecord{}, fmt.Errorf("%w: checksum %s: %w", release.ErrPackaging, archive.Path, err)
	}

	record := release.NewReleaseRecord(version, checksum)

	logger.InfoKV(ctx, "Updating package manifest",
		"path", cfg.IOS.PackageManifest, "tag", record.Tag, "checksum", record.Checksum)

	if err = manifest.UpdatePackageRelease(cfg.IOS.PackageManifest, cfg.IOS.Declarations, record); err != nil {
		return release.ReleaseRecord{}, fmt.Errorf("update %s: %w", cfg.IOS.PackageManifest, err)
	}

	return record, nil
}

// compressedBundle returns the last compressed bundle among inputs.
func compressedBundle(inputs []release.Artifact) (release.Artifact, error) {
	archives := release.Filter(inputs, release.KindCompressedBundle)
	if len(archives) == 0 {
		return release.Artifact{}, fmt.Errorf("%w: %w", release.ErrPackaging, errNoCompressedBundle)
	}

	return archives[len(archives)-1], nil
}
