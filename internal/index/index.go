// Package index provides the vector collection abstraction: named collections
// of chunk entries with similarity query, plus the lock-guarded coordinator
// that imposes replace-on-reingest atomicity.
package index

import (
	"context"

	"github.com/faiqfarooq/codebase-rag/internal/models"
)

// Entry is one indexed chunk: identifier, raw text, and citation metadata.
type Entry struct {
	ID       string
	Text     string
	Metadata models.ChunkMetadata
}

// Result is a single similarity hit in rank order.
type Result struct {
	Entry Entry
	Score float64
}

// Store is a collection-oriented similarity index. Implementations make no
// atomicity guarantee across calls; the Collection coordinator imposes it.
type Store interface {
	// CreateCollection creates an empty collection. Creating an existing
	// collection resets it.
	CreateCollection(ctx context.Context, name string) error
	// DeleteCollection removes a collection. Deleting a missing collection
	// is not an error.
	DeleteCollection(ctx context.Context, name string) error
	// Add bulk-adds entries to a collection.
	Add(ctx context.Context, name string, entries []Entry) error
	// Query returns up to topK entries most similar to text, best first.
	// A missing or empty collection yields zero results, not an error.
	Query(ctx context.Context, name string, text string, topK int) ([]Result, error)
}
