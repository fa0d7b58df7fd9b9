package driving

import (
	"context"
)

// CorpusDocument is one input document for an index build.
type CorpusDocument struct {
	// Text is the document content to embed.
	Text string

	// Metadata is attached to the resulting chunk.
	Metadata map[string]string
}

// CorpusStatus describes one corpus index for operators.
type CorpusStatus struct {
	// Corpus is the corpus name.
	Corpus string

	// Chunks is the number of indexed chunks. Zero with Available false
	// means the artifact is missing.
	Chunks int

	// Fingerprint is the embedding model fingerprint of the artifact.
	Fingerprint string

	// Available is false when the index cannot serve searches.
	Available bool
}

// IndexAdmin builds and inspects corpus indexes. Builds write a new
// artifact and swap it in atomically; readers never observe a
// partially built index.
type IndexAdmin interface {
	// Build embeds the documents and replaces the named corpus index.
	Build(ctx context.Context, corpus string, docs []CorpusDocument) (CorpusStatus, error)

	// Status reports every registered corpus.
	Status(ctx context.Context) ([]CorpusStatus, error)
}
