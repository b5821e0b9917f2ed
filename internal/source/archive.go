// Package source materializes code trees from remote forms (zip uploads,
// git repositories) into local directories ready for ingestion.
package source

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
)

// maxArchiveFileSize caps a single extracted file. Uploaded archives hold
// source code; anything larger than this is not a text file worth indexing.
const maxArchiveFileSize = 64 << 20 // 64 MiB

// ExtractArchive unpacks the zip archive at archivePath into a fresh
// temporary directory and returns its path. The caller owns the directory
// and should remove it when done.
func ExtractArchive(archivePath, originalName string) (string, error) {
	if !strings.EqualFold(filepath.Ext(originalName), ".zip") {
		return "", apperr.InvalidInput("only .zip files are supported")
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", apperr.InvalidInput("file is not a valid zip archive")
	}
	defer zr.Close()

	dest, err := os.MkdirTemp("", "codebase-rag-upload-*")
	if err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}

	for _, f := range zr.File {
		if err := extractEntry(dest, f); err != nil {
			_ = os.RemoveAll(dest)
			return "", err
		}
	}
	return dest, nil
}

// extractEntry writes one zip entry under dest, rejecting paths that would
// escape it (zip slip).
func extractEntry(dest string, f *zip.File) error {
	target := filepath.Join(dest, filepath.FromSlash(f.Name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return apperr.InvalidInput(fmt.Sprintf("archive entry %q escapes extraction directory", f.Name))
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(rc, maxArchiveFileSize)); err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return nil
}
