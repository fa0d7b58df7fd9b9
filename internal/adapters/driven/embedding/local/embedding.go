// Package local provides a deterministic offline embedding service
// based on term feature hashing. It needs no provider and always
// produces the same vector for the same text, which makes it suitable
// for air-gapped deployments and tests. Semantic quality is far below
// a real model; similarity degrades to term overlap.
package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/vector"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions balances collision rate against vector size for
// corpora in the tens of thousands of chunks.
const DefaultDimensions = 256

// EmbeddingService hashes lowercased terms into a fixed-size vector
// and normalises the result to unit length.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a local embedding service. A
// non-positive dimensions falls back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)
	for _, term := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(term))
		sum := h.Sum32()
		// The low bits pick the bucket, one higher bit picks the sign.
		// Signed hashing keeps unrelated texts near-orthogonal in
		// expectation.
		bucket := int(sum % uint32(s.dimensions))
		if sum&(1<<31) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}
	return vector.Normalize(vec), nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "local-feature-hash"
}

// Fingerprint identifies the hashing scheme and dimensionality for
// index compatibility checks.
func (s *EmbeddingService) Fingerprint() string {
	return fmt.Sprintf("local/feature-hash-v1:%d", s.dimensions)
}

// Ping always succeeds; there is no remote service.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenize splits text into lowercased alphanumeric terms.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
