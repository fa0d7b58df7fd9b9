package services

import (
	"context"
	"fmt"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure MemoryAdminService implements the interface.
var _ driving.MemoryAdmin = (*MemoryAdminService)(nil)

// MemoryAdminService exposes chat memory maintenance. It is a thin
// layer over the store that adds validation and operator logging;
// eviction semantics live in the store itself. Maintenance also covers
// the durable archive, so evicted turns cannot resurrect when the
// store is rebuilt from it on the next startup.
type MemoryAdminService struct {
	store   driven.MemoryStore
	archive driven.MemoryArchive // may be nil
}

// NewMemoryAdminService creates a memory admin service. A nil archive
// limits maintenance to the in-process store.
func NewMemoryAdminService(store driven.MemoryStore, archive driven.MemoryArchive) *MemoryAdminService {
	return &MemoryAdminService{store: store, archive: archive}
}

// Prune evicts turns per the policy.
func (s *MemoryAdminService) Prune(ctx context.Context, policy domain.PrunePolicy) (int, error) {
	if !policy.Enabled() {
		return 0, fmt.Errorf("%w: prune policy needs max-turns or max-age", domain.ErrInvalidInput)
	}

	n, err := s.store.Prune(ctx, policy)
	if err != nil {
		return 0, fmt.Errorf("prune memory: %w", err)
	}
	if s.archive != nil {
		if _, err := s.archive.Prune(ctx, policy); err != nil {
			return 0, fmt.Errorf("prune memory archive: %w", err)
		}
	}
	logger.Info("Pruned %d memory turns (user=%q max_turns=%d max_age=%s)",
		n, policy.UserID, policy.MaxTurns, policy.MaxAge)
	return n, nil
}

// Clear removes all turns for a user, or every user when userID is empty.
func (s *MemoryAdminService) Clear(ctx context.Context, userID string) (int, error) {
	n, err := s.store.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear memory: %w", err)
	}
	if s.archive != nil {
		if _, err := s.archive.Clear(ctx, userID); err != nil {
			return 0, fmt.Errorf("clear memory archive: %w", err)
		}
	}
	logger.Info("Cleared %d memory turns (user=%q)", n, userID)
	return n, nil
}

// Stats reports retrievable turn counts.
func (s *MemoryAdminService) Stats(ctx context.Context) (domain.MemoryStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return domain.MemoryStats{}, fmt.Errorf("memory stats: %w", err)
	}
	return stats, nil
}

// RehydrateMemory rebuilds the in-process store from the durable
// archive, making prior exchanges searchable again after a restart.
// Turns recorded without an embedding cannot participate in similarity
// search and are skipped. Returns the number of turns loaded.
func RehydrateMemory(ctx context.Context, store driven.MemoryStore, archive driven.MemoryArchive) (int, error) {
	turns, err := archive.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading memory archive: %w", err)
	}

	var loaded int
	for _, turn := range turns {
		if len(turn.Embedding) == 0 {
			logger.Debug("Memory rehydrate: turn %s has no embedding, skipping", turn.ID)
			continue
		}
		if err := store.Append(ctx, turn); err != nil {
			return loaded, fmt.Errorf("rehydrating turn %s: %w", turn.ID, err)
		}
		loaded++
	}
	return loaded, nil
}
