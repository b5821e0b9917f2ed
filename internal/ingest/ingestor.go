package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/index"
)

// Ingestor runs the ingestion pipeline: discover files, chunk them, build
// metadata, and replace the collection contents wholesale.
type Ingestor struct {
	collector     *Collector
	chunker       *Chunker
	collection    *index.Collection
	previewLength int
	logger        *zap.Logger
}

// NewIngestor creates an ingestor with the given dependencies.
func NewIngestor(collector *Collector, chunker *Chunker, collection *index.Collection, previewLength int, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		collector:     collector,
		chunker:       chunker,
		collection:    collection,
		previewLength: previewLength,
		logger:        logger,
	}
}

// IngestDirectory ingests all eligible files under root and replaces the
// prior collection contents. Per-file read and decode failures are logged and
// skipped; the run continues. Returns the number of files successfully
// processed and the number of chunks created.
func (ing *Ingestor) IngestDirectory(ctx context.Context, root string) (filesProcessed, chunksCreated int, err error) {
	runID := uuid.New().String()
	files, err := ing.collector.Collect(root)
	if err != nil {
		return 0, 0, err
	}
	ing.logger.Info("ingestion started",
		zap.String("run_id", runID),
		zap.String("root", root),
		zap.Int("files_found", len(files)),
	)

	builder := NewMetadataBuilder(ing.previewLength)
	var entries []index.Entry
	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			ing.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(readErr))
			continue
		}
		if !utf8.Valid(data) {
			ing.logger.Warn("skipping non-utf8 file", zap.String("path", path))
			continue
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			continue
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		chunks := ing.chunker.Chunk(content, FileType(path))
		if len(chunks) == 0 {
			continue
		}
		entries = append(entries, builder.Build(content, rel, chunks)...)
		filesProcessed++
	}

	if len(entries) > 0 {
		if err := ing.collection.Replace(ctx, entries); err != nil {
			return 0, 0, err
		}
	}
	ing.logger.Info("ingestion finished",
		zap.String("run_id", runID),
		zap.Int("files_processed", filesProcessed),
		zap.Int("chunks_created", len(entries)),
	)
	return filesProcessed, len(entries), nil
}
