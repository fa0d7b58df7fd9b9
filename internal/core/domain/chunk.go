package domain

// Chunk represents a searchable unit of corpus text.
// Chunks are created in bulk during an index build and are immutable
// once indexed; a corpus is only ever replaced by a full rebuild.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Corpus names the knowledge corpus that owns this chunk
	// (e.g. "docs", "tickets", "configs").
	Corpus string

	// Text is the chunk content.
	Text string

	// Embedding is the vector representation for similarity search.
	// It must be produced by the same embedding model used at query time.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs (source file,
	// ticket status, etc).
	Metadata map[string]string
}
