// Package file persists corpus indexes as versioned artifacts on local
// disk and serves similarity search over them in memory. Artifacts are
// written atomically and carry the embedding model fingerprint so an
// index built with one model is never silently queried with another.
package file

import (
	"context"
	"sort"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/vector"
)

// Ensure Index implements the interface.
var _ driven.CorpusIndex = (*Index)(nil)

// Index is an immutable in-memory similarity index over one corpus.
// Search is brute force over all chunks; corpora here are thousands of
// chunks, not millions, and exact search keeps ranking reproducible.
type Index struct {
	name        string
	fingerprint string
	chunks      []domain.Chunk
	centroid    []float32
}

// NewIndex builds an index over the chunks. The centroid is computed
// once here; the index never changes afterwards.
func NewIndex(name, fingerprint string, chunks []domain.Chunk) *Index {
	vecs := make([][]float32, len(chunks))
	for i, c := range chunks {
		vecs[i] = c.Embedding
	}
	return &Index{
		name:        name,
		fingerprint: fingerprint,
		chunks:      chunks,
		centroid:    vector.Centroid(vecs),
	}
}

// Name returns the corpus name.
func (idx *Index) Name() string {
	return idx.name
}

// Search returns the k most similar chunks by cosine similarity,
// descending. Ties are broken by chunk ID for stable ordering.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.CorpusHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 || len(idx.chunks) == 0 {
		return nil, nil
	}

	hits := make([]driven.CorpusHit, 0, len(idx.chunks))
	for _, c := range idx.chunks {
		hits = append(hits, driven.CorpusHit{
			Chunk: c,
			Score: vector.Cosine(query, c.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.ID < hits[j].Chunk.ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Centroid returns the mean chunk embedding, nil when empty.
func (idx *Index) Centroid() []float32 {
	return idx.centroid
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Fingerprint returns the embedding model fingerprint the index was
// built with.
func (idx *Index) Fingerprint() string {
	return idx.fingerprint
}
