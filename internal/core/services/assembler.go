package services

import (
	"context"
	"fmt"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// ContextAssembler gathers the evidence and history segments for one
// query. Chat memory is searched on every request regardless of the
// routing outcome: conversational continuity is orthogonal to which
// knowledge corpus answers the question. The two segments are kept
// separate and never re-ranked against each other.
type ContextAssembler struct {
	registry driven.IndexRegistry
	memory   driven.MemoryStore
	settings domain.Settings
}

// NewContextAssembler creates a context assembler.
func NewContextAssembler(
	registry driven.IndexRegistry,
	memory driven.MemoryStore,
	settings domain.Settings,
) *ContextAssembler {
	return &ContextAssembler{
		registry: registry,
		memory:   memory,
		settings: settings,
	}
}

// Assemble retrieves corpus chunks (when a corpus was selected) and the
// user's own memory turns, then truncates to the configured character
// budget. Truncation drops the lowest-scored items first within each
// segment and never empties a non-empty segment.
//
// The returned bool reports whether truncation dropped anything.
func (a *ContextAssembler) Assemble(
	ctx context.Context,
	decision domain.RoutingDecision,
	queryVec []float32,
	userID string,
) (domain.RetrievedContext, bool, error) {
	logger.Section("Context Assembly")

	var rc domain.RetrievedContext

	if !decision.Fallback {
		evidence, err := a.searchCorpus(ctx, decision.Corpus, queryVec)
		if err != nil {
			return domain.RetrievedContext{}, false, err
		}
		rc.Evidence = evidence
	}

	history, err := a.searchMemory(ctx, userID, queryVec)
	if err != nil {
		// Memory is an enrichment, not the evidence source: log and
		// continue with whatever we have.
		logger.Warn("Context assembly: memory search failed: %v", err)
	} else {
		rc.History = history
	}

	truncated := a.truncate(&rc)
	logger.Info("Assembled context: %d evidence, %d history, %d chars (truncated=%t)",
		len(rc.Evidence), len(rc.History), rc.Size(), truncated)

	return rc, truncated, nil
}

// searchCorpus retrieves top-k chunks from the selected corpus.
func (a *ContextAssembler) searchCorpus(
	ctx context.Context, corpus string, queryVec []float32,
) ([]domain.RetrievedItem, error) {
	idx, err := a.registry.Get(corpus)
	if err != nil {
		return nil, fmt.Errorf("get corpus %q: %w", corpus, err)
	}

	k := a.settings.TopKFor(corpus)
	hits, err := idx.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("search corpus %q: %w", corpus, err)
	}
	logger.Debug("Corpus %q: %d hits (k=%d)", corpus, len(hits), k)

	items := make([]domain.RetrievedItem, len(hits))
	for i, hit := range hits {
		items[i] = domain.RetrievedItem{
			Kind:   domain.ItemChunk,
			ID:     hit.Chunk.ID,
			Text:   hit.Chunk.Text,
			Score:  hit.Score,
			Corpus: hit.Chunk.Corpus,
		}
	}
	return items, nil
}

// searchMemory retrieves the user's own relevant turns, filtered by the
// memory score floor so off-topic history stays out of the prompt.
func (a *ContextAssembler) searchMemory(
	ctx context.Context, userID string, queryVec []float32,
) ([]domain.RetrievedItem, error) {
	if a.memory == nil {
		return nil, nil
	}

	hits, err := a.memory.SearchByUser(ctx, userID, queryVec, a.settings.ChatHistoryLimit)
	if err != nil {
		return nil, err
	}

	items := make([]domain.RetrievedItem, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < a.settings.MemoryScoreFloor {
			continue
		}
		items = append(items, domain.RetrievedItem{
			Kind:  domain.ItemTurn,
			ID:    hit.Turn.ID,
			Text:  hit.Turn.Text,
			Score: hit.Score,
			Role:  hit.Turn.Role,
		})
	}
	logger.Debug("Memory: %d hits, %d above score floor %.2f",
		len(hits), len(items), a.settings.MemoryScoreFloor)
	return items, nil
}

// truncate enforces the character budget. Items arrive sorted by
// descending score, so dropping from the tail removes the lowest
// scored first. Each non-empty segment keeps at least its top item to
// avoid context starvation, even if that overshoots the budget.
func (a *ContextAssembler) truncate(rc *domain.RetrievedContext) bool {
	budget := a.settings.ContextBudget
	if budget <= 0 || rc.Size() <= budget {
		return false
	}

	for rc.Size() > budget {
		// History goes first: evidence is why the corpus was selected.
		switch {
		case len(rc.History) > 1:
			rc.History = rc.History[:len(rc.History)-1]
		case len(rc.Evidence) > 1:
			rc.Evidence = rc.Evidence[:len(rc.Evidence)-1]
		default:
			// Both segments are down to their protected minimum.
			return true
		}
	}
	return true
}
