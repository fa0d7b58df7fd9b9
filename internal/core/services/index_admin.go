package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure IndexAdminService implements the interface.
var _ driving.IndexAdmin = (*IndexAdminService)(nil)

// IndexAdminService builds corpus indexes from documents and reports
// their status. A build embeds every document, writes a fresh artifact
// through the index store, and swaps it into the registry atomically;
// concurrent readers keep the previous index until the swap.
type IndexAdminService struct {
	embedder driven.EmbeddingService
	store    driven.IndexStore
	registry driven.IndexRegistry
}

// NewIndexAdminService creates an index admin service.
func NewIndexAdminService(
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	registry driven.IndexRegistry,
) *IndexAdminService {
	return &IndexAdminService{
		embedder: embedder,
		store:    store,
		registry: registry,
	}
}

// Build embeds the documents and replaces the named corpus index.
func (s *IndexAdminService) Build(
	ctx context.Context, corpus string, docs []driving.CorpusDocument,
) (driving.CorpusStatus, error) {
	corpus = strings.TrimSpace(corpus)
	if corpus == "" {
		return driving.CorpusStatus{}, fmt.Errorf("%w: corpus name cannot be empty", domain.ErrInvalidInput)
	}
	if len(docs) == 0 {
		return driving.CorpusStatus{}, fmt.Errorf("%w: no documents to index", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return driving.CorpusStatus{}, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Index Build")
	logger.Info("Building corpus %q from %d documents", corpus, len(docs))

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return driving.CorpusStatus{}, fmt.Errorf("%w: embed corpus %q: %v", domain.ErrEmbeddingFailure, corpus, err)
	}
	if len(embeddings) != len(docs) {
		return driving.CorpusStatus{}, fmt.Errorf("embed corpus %q: got %d embeddings for %d documents",
			corpus, len(embeddings), len(docs))
	}

	chunks := make([]domain.Chunk, len(docs))
	for i, doc := range docs {
		chunks[i] = domain.Chunk{
			ID:        uuid.NewString(),
			Corpus:    corpus,
			Text:      doc.Text,
			Embedding: embeddings[i],
			Metadata:  doc.Metadata,
		}
	}

	idx, err := s.store.Build(ctx, corpus, chunks, s.embedder.Fingerprint())
	if err != nil {
		return driving.CorpusStatus{}, fmt.Errorf("build corpus %q: %w", corpus, err)
	}

	s.registry.Swap(corpus, idx)
	logger.Info("Corpus %q rebuilt: %d chunks, fingerprint %s", corpus, idx.Len(), idx.Fingerprint())

	return driving.CorpusStatus{
		Corpus:      corpus,
		Chunks:      idx.Len(),
		Fingerprint: idx.Fingerprint(),
		Available:   true,
	}, nil
}

// Status reports every registered corpus.
func (s *IndexAdminService) Status(_ context.Context) ([]driving.CorpusStatus, error) {
	names := s.registry.Names()
	statuses := make([]driving.CorpusStatus, 0, len(names))
	for _, name := range names {
		idx, err := s.registry.Get(name)
		if err != nil {
			statuses = append(statuses, driving.CorpusStatus{Corpus: name})
			continue
		}
		statuses = append(statuses, driving.CorpusStatus{
			Corpus:      name,
			Chunks:      idx.Len(),
			Fingerprint: idx.Fingerprint(),
			Available:   idx.Len() > 0,
		})
	}
	return statuses, nil
}
