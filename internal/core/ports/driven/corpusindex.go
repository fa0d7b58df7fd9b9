package driven

import (
	"context"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

// CorpusIndex provides similarity search over one knowledge corpus.
// Indexes are read-mostly: built in bulk, then only read until a full
// rebuild swaps in a new artifact. All implementations must use the
// same metric (cosine similarity, descending) so cross-corpus score
// comparison in the router is meaningful.
type CorpusIndex interface {
	// Name returns the corpus name (e.g. "docs").
	Name() string

	// Search finds the k most similar chunks to the query embedding,
	// ordered by descending similarity. Returns an
	// IndexUnavailableError naming the corpus if the index was never
	// built or its artifact is missing.
	Search(ctx context.Context, query []float32, k int) ([]CorpusHit, error)

	// Centroid returns the mean of all chunk embeddings, used by the
	// router's default affinity scorer. Nil when the index is empty.
	Centroid() []float32

	// Len returns the number of indexed chunks.
	Len() int

	// Fingerprint returns the embedding model fingerprint the index was
	// built with.
	Fingerprint() string
}

// CorpusHit is one similarity search result.
type CorpusHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Score is the cosine similarity (0-1), descending within a result set.
	Score float64
}

// IndexStore persists corpus indexes as on-disk artifacts. Build writes
// the new artifact atomically (temp file + rename) so no reader ever
// sees a partially written index; Load verifies the stored embedding
// fingerprint against the one expected by the caller.
type IndexStore interface {
	// Build creates, persists, and returns an index over the chunks.
	Build(ctx context.Context, corpus string, chunks []domain.Chunk, fingerprint string) (CorpusIndex, error)

	// Load reads the named corpus artifact. Returns an
	// IndexUnavailableError when the artifact is missing and
	// ErrFingerprintMismatch when it was built with a different
	// embedding model than expectFingerprint.
	Load(ctx context.Context, corpus string, expectFingerprint string) (CorpusIndex, error)
}

// IndexRegistry holds the live corpus indexes. Rebuilds replace an
// index atomically: readers observe either the old or the new index,
// never a partially built one.
type IndexRegistry interface {
	// Get returns the index for the named corpus. Returns an
	// IndexUnavailableError when the corpus is not registered.
	Get(name string) (CorpusIndex, error)

	// Names returns registered corpus names in priority order.
	Names() []string

	// Swap atomically replaces the index for the named corpus,
	// registering it if absent.
	Swap(name string, idx CorpusIndex)
}
