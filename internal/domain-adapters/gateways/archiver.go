package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quayside/shipwright/internal/domain/entities"
)

// TarGzArchiver creates gzip-compressed tar archives.
type TarGzArchiver struct{}

// NewTarGzArchiver creates a new archiver.
func NewTarGzArchiver() *TarGzArchiver {
	return &TarGzArchiver{}
}

// ArchiveFile packages a single file under nameInArchive. Slashes in the
// name create a directory hierarchy, so extraction can reproduce
// <os>/<arch>/<binary>.
func (a *TarGzArchiver) ArchiveFile(_ context.Context, srcPath, archivePath, nameInArchive string) (*entities.Archive, error) {
	info, err := os.Stat(srcPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source %s is a directory, not a file", srcPath)
	}

	err = a.write(archivePath, func(tw *tar.Writer) error {
		return addFile(tw, srcPath, nameInArchive, info)
	})
	if err != nil {
		return nil, err
	}

	return a.describe(archivePath)
}

// ArchiveDir packages every regular file under srcDir, with names relative
// to srcDir. Archives and checksum/signature sidecars already present inside
// srcDir are left out, so a stale per-target run cannot leak into an
// aggregate bundle.
func (a *TarGzArchiver) ArchiveDir(_ context.Context, srcDir, archivePath string) (*entities.Archive, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", srcDir)
	}

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive path: %w", err)
	}

	err = a.write(archivePath, func(tw *tar.Writer) error {
		return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(srcDir, path)
			if err != nil {
				return fmt.Errorf("failed to get relative path: %w", err)
			}
			if relPath == "." {
				return nil
			}

			if info.IsDir() {
				header, err := tar.FileInfoHeader(info, "")
				if err != nil {
					return fmt.Errorf("failed to create tar header: %w", err)
				}
				header.Name = filepath.ToSlash(relPath) + "/"
				return tw.WriteHeader(header)
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if isPackagingArtifact(info.Name()) {
				return nil
			}

			// The archive may be written into the directory being packed
			if abs, err := filepath.Abs(path); err == nil && abs == absArchive {
				return nil
			}

			return addFile(tw, path, filepath.ToSlash(relPath), info)
		})
	})
	if err != nil {
		return nil, err
	}

	return a.describe(archivePath)
}

// write creates the archive file and runs fill with a ready tar writer,
// closing the writer chain in order so the gzip trailer is flushed.
func (a *TarGzArchiver) write(archivePath string, fill func(*tar.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(archivePath), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	//nolint:gosec // G304: archivePath is constructed for package output
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	gzw := gzip.NewWriter(f)
	tw := tar.NewWriter(gzw)

	if err := fill(tw); err != nil {
		//nolint:errcheck,gosec // G104: best effort cleanup on failure
		tw.Close()
		//nolint:errcheck,gosec // G104: best effort cleanup on failure
		gzw.Close()
		//nolint:errcheck,gosec // G104: best effort cleanup on failure
		f.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close archive file: %w", err)
	}

	return nil
}

func (a *TarGzArchiver) describe(archivePath string) (*entities.Archive, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	return &entities.Archive{
		Name: filepath.Base(archivePath),
		Path: archivePath,
		Size: info.Size(),
	}, nil
}

// isPackagingArtifact reports whether a name is a prior run's archive or
// sidecar rather than a binary to bundle.
func isPackagingArtifact(name string) bool {
	for _, suffix := range []string{".tar.gz", ".zip", ".sha256", ".sha512", ".asc", ".sig"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func addFile(tw *tar.Writer, path, nameInArchive string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to create tar header: %w", err)
	}
	header.Name = nameInArchive

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}

	//nolint:gosec // G304: path comes from the packaging walk
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to write file to tar: %w", err)
	}

	return nil
}
