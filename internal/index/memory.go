package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/faiqfarooq/codebase-rag/internal/embedding"
)

// MemoryStore is an in-process Store using brute-force cosine similarity over
// embedded chunk texts. Suitable for a single logical codebase at a time.
type MemoryStore struct {
	embedder embedding.Embedder
	mu       sync.RWMutex
	colls    map[string]*memCollection
}

type memCollection struct {
	entries []Entry
	vectors [][]float32
}

// NewMemoryStore creates a memory store backed by the given embedder.
func NewMemoryStore(embedder embedding.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder: embedder,
		colls:    make(map[string]*memCollection),
	}
}

// CreateCollection creates (or resets) a named collection.
func (s *MemoryStore) CreateCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colls[name] = &memCollection{}
	return nil
}

// DeleteCollection removes a collection; missing collections are ignored.
func (s *MemoryStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.colls, name)
	return nil
}

// Add embeds and appends entries to the collection.
func (s *MemoryStore) Add(ctx context.Context, name string, entries []Entry) error {
	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		vec, err := s.embedder.Embed(ctx, e.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", e.ID, err)
		}
		vectors[i] = vec
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.colls[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}
	coll.entries = append(coll.entries, entries...)
	coll.vectors = append(coll.vectors, vectors...)
	return nil
}

// Query ranks the collection by cosine similarity to text.
func (s *MemoryStore) Query(ctx context.Context, name string, text string, topK int) ([]Result, error) {
	query, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.colls[name]
	if !ok || len(coll.entries) == 0 || topK <= 0 {
		return nil, nil
	}
	results := make([]Result, len(coll.entries))
	for i, vec := range coll.vectors {
		results[i] = Result{Entry: coll.entries[i], Score: dot(query, vec)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// dot assumes both vectors are L2-normalized, so the inner product is the
// cosine similarity.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
