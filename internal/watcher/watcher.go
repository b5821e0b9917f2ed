// Package watcher re-ingests a watched source tree when its files change.
// The index is rebuilt as a whole on every ingestion, so the watcher
// collapses bursts of file events into a single debounced re-ingest.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/faiqfarooq/codebase-rag/internal/ingest"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches one ingested directory tree and triggers a full
// re-ingestion after file changes settle.
type Watcher struct {
	ingestor   *ingest.Ingestor
	extensions []string
	debounce   time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	root    string
	timer   *time.Timer
	started bool
	done    chan struct{}
	stop    sync.Once
}

// NewWatcher creates a watcher that re-ingests through ingestor. extensions
// filters which file changes count (empty means all); debounce is how long
// events must settle before re-ingesting.
func NewWatcher(ingestor *ingest.Ingestor, extensions []string, debounce time.Duration, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{
		ingestor:   ingestor,
		extensions: extensions,
		debounce:   debounce,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start begins processing filesystem events. It returns immediately; events
// are handled in a background goroutine until ctx is cancelled or Stop is
// called. No directory is watched until SetRoot is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.started = true
	w.mu.Unlock()

	go w.run(ctx, fw)
	return nil
}

// SetRoot switches the watched tree to root. The previous root, if any, is
// unwatched. Call this after each successful directory ingestion so edits to
// the ingested tree keep the index current.
func (w *Watcher) SetRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	if w.root == abs {
		return nil
	}
	if w.root != "" {
		w.removeTreeLocked(w.root)
	}
	if err := w.addTreeLocked(abs); err != nil {
		return err
	}
	w.root = abs
	w.logger.Info("watching directory for changes", zap.String("root", abs))
	return nil
}

// Root returns the currently watched directory, or empty when none is set.
func (w *Watcher) Root() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root
}

// run drains fw's channels until they close. It holds its own reference to
// the fsnotify watcher: Stop nils the struct field under the lock, and the
// closed Events/Errors channels are what end this loop.
func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	w.mu.Lock()
	root := w.root
	fw := w.watcher
	w.mu.Unlock()
	if root == "" || fw == nil || !inDir(root, ev.Name) {
		return
	}

	relevant := false
	switch {
	case ev.Op.Has(fsnotify.Create):
		// A new directory must be added to the watch before its
		// contents produce events.
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.mu.Lock()
			w.addTreeLocked(ev.Name)
			w.mu.Unlock()
			relevant = true
			break
		}
		relevant = w.matchExtension(ev.Name)
	case ev.Op.Has(fsnotify.Write), ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		relevant = w.matchExtension(ev.Name)
	}
	if !relevant {
		return
	}

	w.logger.Debug("file change detected", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	w.scheduleReingest(ctx, root)
}

// scheduleReingest arms (or re-arms) the debounce timer for a full
// re-ingestion of root.
func (w *Watcher) scheduleReingest(ctx context.Context, root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		files, chunks, err := w.ingestor.IngestDirectory(ctx, root)
		if err != nil {
			w.logger.Warn("re-ingestion after file change failed", zap.String("root", root), zap.Error(err))
			return
		}
		w.logger.Info("re-ingested after file change",
			zap.String("root", root),
			zap.Int("files_processed", files),
			zap.Int("chunks_created", chunks))
	})
}

func (w *Watcher) addTreeLocked(root string) error {
	if w.watcher == nil {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Debug("cannot watch directory", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	})
}

func (w *Watcher) removeTreeLocked(root string) {
	for _, p := range w.watcher.WatchList() {
		if p == root || inDir(root, p) {
			_ = w.watcher.Remove(p)
		}
	}
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) matchExtension(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range w.extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// Stop stops event processing and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stop.Do(func() { close(w.done) })
}
