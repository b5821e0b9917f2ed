// Package ingest provides file discovery, language-aware chunking, chunk
// metadata construction, and the ingestion pipeline that feeds the index.
package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
)

// Collector walks a root directory and returns eligible source files.
type Collector struct {
	extensions map[string]bool
}

// NewCollector creates a collector matching the given extensions
// (with or without the leading dot, case-insensitive).
func NewCollector(extensions []string) *Collector {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return &Collector{extensions: set}
}

// Collect returns the deduplicated, sorted set of absolute paths under root
// whose extension matches. Unreadable subtrees are skipped, not fatal.
func (c *Collector) Collect(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, apperr.InvalidInput("directory path does not exist")
	}
	if !info.IsDir() {
		return nil, apperr.InvalidInput("path is not a directory")
	}

	seen := make(map[string]bool)
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !c.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		resolved := resolvePath(path)
		if seen[resolved] {
			return nil
		}
		seen[resolved] = true
		files = append(files, resolved)
		return nil
	})

	if len(files) == 0 {
		return nil, apperr.NoFilesFound("no code files found in directory")
	}
	sort.Strings(files)
	return files, nil
}

// resolvePath returns the symlink-resolved absolute path, falling back to the
// absolute path when resolution fails.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
