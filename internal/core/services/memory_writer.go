package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// embedRetryDelay is the pause before the single retry of a failed
// embedding call during a memory write.
const embedRetryDelay = 250 * time.Millisecond

// memoryWriteTimeout bounds one background write so an unresponsive
// provider cannot leak goroutines. Independent of the request deadline:
// the response has already been returned when the write runs.
const memoryWriteTimeout = 30 * time.Second

// MemoryWriter records completed exchanges into chat memory. Writes run
// after the response is returned and never delay or fail it: embedding
// failures are retried once, then the turn is logged and dropped.
// Losing one memory entry is non-fatal.
//
// Every appended turn is also mirrored to the configured sinks, which
// is where audit-grade relational history plugs in.
type MemoryWriter struct {
	embedder driven.EmbeddingService
	store    driven.MemoryStore
	sinks    []driven.MemorySink

	wg sync.WaitGroup
}

// NewMemoryWriter creates a memory writer. Sinks are optional.
func NewMemoryWriter(
	embedder driven.EmbeddingService,
	store driven.MemoryStore,
	sinks ...driven.MemorySink,
) *MemoryWriter {
	return &MemoryWriter{
		embedder: embedder,
		store:    store,
		sinks:    sinks,
	}
}

// RecordExchange stores the user query and assistant answer as two
// ordered chat turns. It returns immediately; the embedding and store
// calls happen on a background goroutine.
func (w *MemoryWriter) RecordExchange(userID, sessionID, query, answer string) {
	now := time.Now().UTC()
	turns := []domain.ChatTurn{
		{
			ID:        uuid.NewString(),
			UserID:    userID,
			SessionID: sessionID,
			Role:      domain.RoleUser,
			Text:      query,
			Timestamp: now,
		},
		{
			ID:        uuid.NewString(),
			UserID:    userID,
			SessionID: sessionID,
			Role:      domain.RoleAssistant,
			Text:      answer,
			// Strictly later timestamp preserves turn order even when
			// both turns land in the same store write batch.
			Timestamp: now.Add(time.Microsecond),
		},
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), memoryWriteTimeout)
		defer cancel()

		for _, turn := range turns {
			w.writeTurn(ctx, turn)
		}
	}()
}

// Wait blocks until all in-flight writes finish. Used at shutdown and
// by tests; the request path never calls it.
func (w *MemoryWriter) Wait() {
	w.wg.Wait()
}

// writeTurn embeds and appends one turn, mirroring it to the sinks.
// All failures are logged only.
func (w *MemoryWriter) writeTurn(ctx context.Context, turn domain.ChatTurn) {
	if err := turn.Validate(); err != nil {
		logger.Error("Memory write: invalid turn: %v", err)
		return
	}

	embedding, err := w.embedWithRetry(ctx, turn.Text)
	if err != nil {
		logger.Error("Memory write: dropping %s turn for user %q: %v", turn.Role, turn.UserID, err)
		return
	}
	turn.Embedding = embedding

	if err := w.store.Append(ctx, turn); err != nil {
		logger.Error("Memory write: append failed for user %q: %v", turn.UserID, err)
		return
	}
	logger.Debug("Memory write: stored %s turn %s for user %q", turn.Role, turn.ID, turn.UserID)

	for _, sink := range w.sinks {
		if err := sink.Record(ctx, turn); err != nil {
			logger.Error("Memory sink: record failed for turn %s: %v", turn.ID, err)
		}
	}
}

// embedWithRetry embeds the text, retrying once on transient failure.
func (w *MemoryWriter) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	if w.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedding, err := w.embedder.Embed(ctx, text)
	if err == nil {
		return embedding, nil
	}
	logger.Warn("Memory write: embedding failed, retrying once: %v", err)

	select {
	case <-time.After(embedRetryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	embedding, err = w.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return embedding, nil
}
