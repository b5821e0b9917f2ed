package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/faiqfarooq/codebase-rag/internal/index"
	"github.com/faiqfarooq/codebase-rag/internal/models"
	"github.com/faiqfarooq/codebase-rag/pkg/utils"
)

// MetadataBuilder derives per-chunk metadata and identifiers. The chunk
// counter is scoped to one ingestion run (shared across all files), so IDs
// stay unique within a collection as long as discovered paths are deduplicated.
type MetadataBuilder struct {
	previewLength int
	counter       int
}

// NewMetadataBuilder creates a builder with the given preview length.
func NewMetadataBuilder(previewLength int) *MetadataBuilder {
	if previewLength <= 0 {
		previewLength = 200
	}
	return &MetadataBuilder{previewLength: previewLength}
}

// Build produces one index entry per chunk of a file. relPath is the file
// path relative to the ingestion root.
//
// The start line is resolved by forward substring search over the original
// file content: a chunk whose text also occurs earlier in the file resolves
// to the earlier occurrence. This mirrors the citation behavior of
// position-only chunking and is retained as documented behavior.
func (b *MetadataBuilder) Build(content, relPath string, chunks []string) []index.Entry {
	filename := filepath.ToSlash(relPath)
	fileType := FileType(relPath)
	entries := make([]index.Entry, 0, len(chunks))
	for _, chunk := range chunks {
		startLine := 1
		if pos := strings.Index(content, chunk); pos >= 0 {
			startLine = utils.LineNumber(content, pos)
		}
		entries = append(entries, index.Entry{
			ID:   fmt.Sprintf("%s_%d", filename, b.counter),
			Text: chunk,
			Metadata: models.ChunkMetadata{
				Filename:  filename,
				StartLine: startLine,
				Preview:   utils.Prefix(chunk, b.previewLength),
				FileType:  fileType,
			},
		})
		b.counter++
	}
	return entries
}

// FileType returns the lowercase file extension without the leading dot,
// or "unknown" for extensionless paths.
func FileType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "unknown"
	}
	return strings.ToLower(ext)
}
