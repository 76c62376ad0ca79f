package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
	"github.com/magefile/mage/sh"

	"github.com/oshokin/azan-release/internal/domain/release"
	"github.com/oshokin/azan-release/internal/logger"
)

var errNoFramework = errors.New("no framework bundle to compress")

// Compress zips the framework bundle so that the archive root holds the
// framework directory itself, which is what SwiftPM binary targets expect.
func (p *Packager) Compress(ctx context.Context, inputs []release.Artifact) (release.Artifact, error) {
	frameworks := release.Filter(inputs, release.KindFrameworkBundle)
	if len(frameworks) == 0 {
		return release.Artifact{}, fmt.Errorf("%w: %w", release.ErrPackaging, errNoFramework)
	}

	source := frameworks[len(frameworks)-1].Path
	output := p.cfg.IOS.ArchivePath

	if err := sh.Rm(output); err != nil {
		return release.Artifact{}, fmt.Errorf("%w: remove stale %s: %w", release.ErrPackaging, output, err)
	}

	logger.InfoKV(ctx, "Compressing XCFramework", "source", source, "output", output)

	if err := ZipDir(source, output); err != nil {
		_ = os.Remove(output)

		return release.Artifact{}, fmt.Errorf("%w: compress %s: %w", release.ErrPackaging, source, err)
	}

	return release.NewAggregateArtifact(release.KindCompressedBundle, output), nil
}

// ZipDir writes dir, including its own name as the top-level entry, to a new zip file at output.
// Entries are written in lexical order so the same tree gives the same entry list.
func ZipDir(dir, output string) (err error) {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Clean(output), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}()

	writer := zip.NewWriter(file)

	parent := filepath.Dir(filepath.Clean(dir))

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}

		return addEntry(writer, path, filepath.ToSlash(rel), entry)
	})
	if err != nil {
		_ = writer.Close()

		return err
	}

	return writer.Close()
}

func addEntry(writer *zip.Writer, path, name string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}

	header.Name = name

	switch {
	case entry.IsDir():
		header.Name += "/"
		header.Method = zip.Store

		_, err = writer.CreateHeader(header)

		return err
	case entry.Type()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return err
		}

		w, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, target)

		return err
	}

	header.Method = zip.Deflate

	w, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}

	src, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(w, src)

	return err
}
