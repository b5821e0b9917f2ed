package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/embedding"
	"github.com/faiqfarooq/codebase-rag/internal/index"
	"github.com/faiqfarooq/codebase-rag/internal/ingest"
)

func newTestSetup(t *testing.T) (*Watcher, *index.Collection) {
	t.Helper()
	store := index.NewMemoryStore(embedding.NewHashEmbedder(64))
	coll := index.NewCollection(store, "codebase")
	ing := ingest.NewIngestor(
		ingest.NewCollector([]string{".py", ".js"}),
		ingest.NewChunker(1000, 200),
		coll,
		200,
		zap.NewNop(),
	)
	w := NewWatcher(ing, []string{".py", ".js"}, 100*time.Millisecond, zap.NewNop())
	return w, coll
}

func TestWatcher_ReingestOnWrite(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.py"), []byte("def a():\n    pass\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, coll := newTestSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.SetRoot(dir); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "b.py"), []byte("def b():\n    return 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if coll.Count() > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("expected re-ingestion to populate the collection, count = %d", coll.Count())
}

func TestWatcher_IgnoresNonMatchingExtension(t *testing.T) {
	dir := t.TempDir()

	w, coll := newTestSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.SetRoot(dir); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not code"), 0o600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if coll.Count() != 0 {
		t.Errorf("non-matching file should not trigger re-ingestion, count = %d", coll.Count())
	}
}

func TestWatcher_SetRootSwitches(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	w, _ := newTestSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.SetRoot(dirA); err != nil {
		t.Fatal(err)
	}
	if err := w.SetRoot(dirB); err != nil {
		t.Fatal(err)
	}
	if got := w.Root(); filepath.Clean(got) != filepath.Clean(dirB) {
		t.Errorf("Root() = %q, want %q", got, dirB)
	}
}

func TestWatcher_StopDuringEventBurst(t *testing.T) {
	for i := 0; i < 20; i++ {
		dir := t.TempDir()
		w, _ := newTestSetup(t)
		ctx, cancel := context.WithCancel(context.Background())
		if err := w.Start(ctx); err != nil {
			cancel()
			t.Fatal(err)
		}
		if err := w.SetRoot(dir); err != nil {
			cancel()
			t.Fatal(err)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for j := 0; j < 50; j++ {
				name := filepath.Join(dir, fmt.Sprintf("f%02d.py", j))
				_ = os.WriteFile(name, []byte("def f():\n    pass\n"), 0o600)
			}
		}()

		// Stop while the writes above are still generating events.
		w.Stop()
		<-done
		cancel()
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.py", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		if got := inDir(tt.dir, tt.path); got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.py", []string{".py"}, true},
		{"/a/b.PY", []string{".py"}, true},
		{"/a/b.go", []string{".py"}, false},
		{"/a/b", nil, true},
	}
	for _, tt := range tests {
		w := &Watcher{extensions: tt.extensions}
		if got := w.matchExtension(tt.path); got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}
