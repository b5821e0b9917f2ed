package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
	"github.com/faiqfarooq/codebase-rag/internal/embedding"
	"github.com/faiqfarooq/codebase-rag/internal/index"
)

func newTestIngestor(t *testing.T) (*Ingestor, *index.Collection) {
	t.Helper()
	store := index.NewMemoryStore(embedding.NewHashEmbedder(128))
	coll := index.NewCollection(store, "codebase")
	ing := NewIngestor(
		NewCollector([]string{".js", ".ts", ".tsx", ".jsx", ".py"}),
		NewChunker(1000, 200),
		coll,
		200,
		zap.NewNop(),
	)
	return ing, coll
}

func TestIngestor_SmallAndLargeFiles(t *testing.T) {
	dir := t.TempDir()
	small := "def greet(name):\n    return 'hello ' + name\n" // well under one chunk
	writeFile(t, dir, "a.py", small)

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("const handler = (event) => dispatch(event.payload);\n")
	}
	writeFile(t, dir, "b.js", sb.String()) // ~2000 chars, must split

	ing, coll := newTestIngestor(t)
	files, chunks, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if files != 2 {
		t.Errorf("files_processed = %d, want 2", files)
	}
	if chunks < 2 {
		t.Errorf("chunks_created = %d, want >= 2", chunks)
	}
	if coll.Count() != chunks {
		t.Errorf("collection count %d != chunks created %d", coll.Count(), chunks)
	}
}

func TestIngestor_SkipsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good1.py", "print('one')")
	writeFile(t, dir, "good2.py", "print('two')")
	// Invalid UTF-8 content.
	if err := os.WriteFile(filepath.Join(dir, "bad.py"), []byte{0xff, 0xfe, 0x41}, 0600); err != nil {
		t.Fatal(err)
	}

	ing, _ := newTestIngestor(t)
	files, chunks, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if files != 2 {
		t.Errorf("files_processed = %d, want 2", files)
	}
	if chunks != 2 {
		t.Errorf("chunks_created = %d, want 2", chunks)
	}
}

func TestIngestor_SkipsBlankFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blank.py", "   \n\t\n")
	writeFile(t, dir, "real.py", "print('x')")

	ing, _ := newTestIngestor(t)
	files, _, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if files != 1 {
		t.Errorf("files_processed = %d, want 1", files)
	}
}

func TestIngestor_AllFilesBlankIsSuccess(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blank.py", "\n\n")

	ing, coll := newTestIngestor(t)
	files, chunks, err := ing.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("zero chunks is not an error: %v", err)
	}
	if files != 0 || chunks != 0 {
		t.Errorf("files=%d chunks=%d, want 0/0", files, chunks)
	}
	if coll.Count() != 0 {
		t.Errorf("collection should stay empty")
	}
}

func TestIngestor_ReplaceOnReingest(t *testing.T) {
	dirA := t.TempDir()
	writeFile(t, dirA, "a.py", "def alpha():\n    return 'alpha'\n")
	dirB := t.TempDir()
	writeFile(t, dirB, "b.py", "def beta():\n    return 'beta'\n")

	ing, coll := newTestIngestor(t)
	ctx := context.Background()
	if _, _, err := ing.IngestDirectory(ctx, dirA); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ing.IngestDirectory(ctx, dirB); err != nil {
		t.Fatal(err)
	}

	results, err := coll.Query(ctx, "alpha beta", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Entry.Metadata.Filename == "a.py" {
			t.Error("collection still holds chunks from the first ingestion")
		}
	}
	if coll.Count() != 1 {
		t.Errorf("count = %d, want only dirB's chunk", coll.Count())
	}
}

func TestIngestor_PropagatesCollectorErrors(t *testing.T) {
	ing, _ := newTestIngestor(t)
	_, _, err := ing.IngestDirectory(context.Background(), "/does/not/exist")
	if apperr.KindOf(err) != apperr.KindInvalidInput {
		t.Errorf("expected InvalidInput, got %v", err)
	}

	empty := t.TempDir()
	_, _, err = ing.IngestDirectory(context.Background(), empty)
	if apperr.KindOf(err) != apperr.KindNoFilesFound {
		t.Errorf("expected NoFilesFound, got %v", err)
	}
}

func TestIngestor_CitationLineNumbers(t *testing.T) {
	dir := t.TempDir()
	// Button handler on a known line.
	var sb strings.Builder
	for i := 1; i <= 41; i++ {
		sb.WriteString("// padding comment line\n")
	}
	sb.WriteString("export const Button = () => { throw new Error('broken'); };\n")
	writeFile(t, dir, "Button.tsx", sb.String())

	ing, coll := newTestIngestor(t)
	ctx := context.Background()
	if _, _, err := ing.IngestDirectory(ctx, dir); err != nil {
		t.Fatal(err)
	}
	results, err := coll.Query(ctx, "Button broken error", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected a hit")
	}
	found := false
	for _, r := range results {
		if r.Entry.Metadata.Filename == "Button.tsx" && strings.Contains(r.Entry.Text, "Button") {
			found = true
			if r.Entry.Metadata.StartLine < 1 {
				t.Errorf("start_line = %d", r.Entry.Metadata.StartLine)
			}
		}
	}
	if !found {
		t.Error("Button.tsx chunk not retrieved")
	}
}
