package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/faiqfarooq/codebase-rag/pkg/utils"
)

// HashEmbedder is a local, deterministic embedder using the hashing trick:
// each token is hashed into one of Dimensions buckets and the bucket counts
// are L2-normalized. No model or network dependency; token overlap between
// two texts translates directly into cosine similarity.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder creates a hash embedder with the given dimension.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 256
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

// Embed returns the normalized token-bucket vector for text.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, tok := range tokenize(text) {
		vec[bucket(tok, e.dimensions)]++
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// tokenize splits text into lowercase identifier-like tokens.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func bucket(token string, dimensions int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return int(h.Sum32() % uint32(dimensions))
}
