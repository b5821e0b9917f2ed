package index

import (
	"context"
	"sync"

	"github.com/faiqfarooq/codebase-rag/internal/apperr"
)

// Collection wraps one named collection behind replace/query operations with
// a read/write lock: Replace holds the write lock across the
// delete-create-add sequence, so concurrent ingestions serialize and queries
// never observe a collection that has been deleted but not yet repopulated.
type Collection struct {
	name  string
	store Store
	mu    sync.RWMutex
	count int
}

// NewCollection creates a coordinator for the named collection in store.
func NewCollection(store Store, name string) *Collection {
	return &Collection{name: name, store: store}
}

// Replace atomically swaps the entire collection contents for entries.
// The prior collection is deleted even if it never existed.
func (c *Collection) Replace(ctx context.Context, entries []Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.DeleteCollection(ctx, c.name); err != nil {
		return apperr.IndexUnavailable("failed to delete collection", err)
	}
	if err := c.store.CreateCollection(ctx, c.name); err != nil {
		return apperr.IndexUnavailable("failed to create collection", err)
	}
	if err := c.store.Add(ctx, c.name, entries); err != nil {
		return apperr.IndexUnavailable("failed to add chunks to collection", err)
	}
	c.count = len(entries)
	return nil
}

// Query returns the topK most similar entries. An empty or not-yet-populated
// collection yields zero results without error.
func (c *Collection) Query(ctx context.Context, text string, topK int) ([]Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	results, err := c.store.Query(ctx, c.name, text, topK)
	if err != nil {
		return nil, apperr.IndexUnavailable("failed to query collection", err)
	}
	return results, nil
}

// Count returns the number of entries in the current collection.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}
