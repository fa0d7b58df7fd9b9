package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// The same model must be used at index build time and query time;
// corpus indexes store the Fingerprint and reject mismatches at load.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local deterministic feature hashing (offline/testing)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 768, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Fingerprint returns a stable identifier for the model version and
	// dimensionality. Stored in index artifacts so a mismatch between
	// build-time and query-time embeddings is detected rather than
	// silently degrading similarity ranking.
	Fingerprint() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
