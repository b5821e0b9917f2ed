package index

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// BleveStore is a Store backed by in-memory bleve indexes, ranking by keyword
// match score instead of embedding similarity. Useful when no embedding
// backend is available.
type BleveStore struct {
	mu    sync.RWMutex
	colls map[string]*bleveCollection
}

type bleveCollection struct {
	index   bleve.Index
	entries map[string]Entry
}

// NewBleveStore creates an empty bleve-backed store.
func NewBleveStore() *BleveStore {
	return &BleveStore{colls: make(map[string]*bleveCollection)}
}

func newBleveCollection() (*bleveCollection, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer: lowercase + tokenize, no stemming, so identifiers
	// like "handleClick" match the query term exactly.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	im.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &bleveCollection{index: idx, entries: make(map[string]Entry)}, nil
}

// CreateCollection creates (or resets) a named collection.
func (s *BleveStore) CreateCollection(_ context.Context, name string) error {
	coll, err := newBleveCollection()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.colls[name]; ok {
		_ = old.index.Close()
	}
	s.colls[name] = coll
	return nil
}

// DeleteCollection removes a collection; missing collections are ignored.
func (s *BleveStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if coll, ok := s.colls[name]; ok {
		_ = coll.index.Close()
		delete(s.colls, name)
	}
	return nil
}

// Add indexes entries into the collection.
func (s *BleveStore) Add(_ context.Context, name string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.colls[name]
	if !ok {
		return fmt.Errorf("collection %s does not exist", name)
	}
	batch := coll.index.NewBatch()
	for _, e := range entries {
		if err := batch.Index(e.ID, map[string]string{"text": e.Text}); err != nil {
			return fmt.Errorf("index chunk %s: %w", e.ID, err)
		}
		coll.entries[e.ID] = e
	}
	if err := coll.index.Batch(batch); err != nil {
		return fmt.Errorf("bleve batch: %w", err)
	}
	return nil
}

// Query runs a match query and returns up to topK hits, best first.
func (s *BleveStore) Query(ctx context.Context, name string, text string, topK int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coll, ok := s.colls[name]
	if !ok || topK <= 0 {
		return nil, nil
	}
	query := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(query, topK, 0, false)
	res, err := coll.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}
	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		entry, ok := coll.entries[hit.ID]
		if !ok {
			continue
		}
		results = append(results, Result{Entry: entry, Score: hit.Score})
	}
	return results, nil
}
