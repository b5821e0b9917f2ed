package index

import (
	"fmt"

	"github.com/faiqfarooq/codebase-rag/internal/embedding"
)

// BackendType selects the Store implementation.
type BackendType string

const (
	// BackendMemory uses embedding cosine similarity over an in-process store.
	BackendMemory BackendType = "memory"
	// BackendBleve uses an in-memory bleve keyword index.
	BackendBleve BackendType = "bleve"
)

// NewStore creates a Store of the given backend type. The embedder is only
// used by the memory backend.
func NewStore(backend string, embedder embedding.Embedder) (Store, error) {
	switch BackendType(backend) {
	case BackendMemory, "":
		if embedder == nil {
			return nil, fmt.Errorf("memory backend requires an embedder")
		}
		return NewMemoryStore(embedder), nil
	case BackendBleve:
		return NewBleveStore(), nil
	default:
		return nil, fmt.Errorf("unknown index backend: %s (supported: memory, bleve)", backend)
	}
}
