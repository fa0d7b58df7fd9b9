// Package vector provides the in-process chat memory store. Turns are
// partitioned by user so similarity search physically cannot cross
// user boundaries, and each partition carries its own lock so one
// user's write never blocks another's search.
package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/vector"
)

// Ensure Store implements the interface.
var _ driven.MemoryStore = (*Store)(nil)

// Store is an in-memory MemoryStore.
type Store struct {
	mu         sync.RWMutex // guards the partitions map, not their contents
	partitions map[string]*partition
}

// partition holds one user's turns in append order.
type partition struct {
	mu    sync.RWMutex
	turns []domain.ChatTurn
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{partitions: make(map[string]*partition)}
}

// Append inserts a turn into its user's partition.
func (s *Store) Append(ctx context.Context, turn domain.ChatTurn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := turn.Validate(); err != nil {
		return err
	}
	if len(turn.Embedding) == 0 {
		return fmt.Errorf("%w: turn %s has no embedding", domain.ErrInvalidInput, turn.ID)
	}

	p := s.partition(turn.UserID)
	p.mu.Lock()
	p.turns = append(p.turns, turn)
	p.mu.Unlock()
	return nil
}

// SearchByUser returns up to k of the user's turns most similar to the
// query embedding, descending. Only the user's own partition is ever
// read, so cross-user leakage is structurally impossible.
func (s *Store) SearchByUser(
	ctx context.Context, userID string, query []float32, k int,
) ([]driven.MemoryHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	p, ok := s.partitions[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	p.mu.RLock()
	hits := make([]driven.MemoryHit, 0, len(p.turns))
	for _, turn := range p.turns {
		hits = append(hits, driven.MemoryHit{
			Turn:  turn,
			Score: vector.Cosine(query, turn.Embedding),
		})
	}
	p.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		// Equal scores: prefer the more recent turn.
		return hits[i].Turn.Timestamp.After(hits[j].Turn.Timestamp)
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Prune evicts turns per the policy and reports how many were removed.
// Age eviction drops turns older than MaxAge; count eviction keeps the
// MaxTurns most recent per user. The partition slice is rewritten in
// place, so pruned turns cannot reappear.
func (s *Store) Prune(ctx context.Context, policy domain.PrunePolicy) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var removed int
	for _, p := range s.selectPartitions(policy.UserID) {
		removed += prunePartition(p, policy)
	}
	return removed, nil
}

// Clear removes all turns for one user, or every user when userID is
// empty.
func (s *Store) Clear(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	if userID == "" {
		for _, p := range s.partitions {
			p.mu.Lock()
			removed += len(p.turns)
			p.mu.Unlock()
		}
		s.partitions = make(map[string]*partition)
		return removed, nil
	}

	if p, ok := s.partitions[userID]; ok {
		p.mu.Lock()
		removed = len(p.turns)
		p.mu.Unlock()
		delete(s.partitions, userID)
	}
	return removed, nil
}

// Stats reports turn counts across all partitions.
func (s *Store) Stats(ctx context.Context) (domain.MemoryStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.MemoryStats{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.MemoryStats{
		TurnsByUser: make(map[string]int, len(s.partitions)),
	}
	for userID, p := range s.partitions {
		p.mu.RLock()
		n := len(p.turns)
		p.mu.RUnlock()
		if n == 0 {
			continue
		}
		stats.TotalTurns += n
		stats.Users++
		stats.TurnsByUser[userID] = n
	}
	return stats, nil
}

// partition returns the user's partition, creating it if needed.
func (s *Store) partition(userID string) *partition {
	s.mu.RLock()
	p, ok := s.partitions[userID]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.partitions[userID]; ok {
		return p
	}
	p = &partition{}
	s.partitions[userID] = p
	return p
}

// selectPartitions returns the partitions a prune applies to.
func (s *Store) selectPartitions(userID string) []*partition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if userID != "" {
		if p, ok := s.partitions[userID]; ok {
			return []*partition{p}
		}
		return nil
	}
	out := make([]*partition, 0, len(s.partitions))
	for _, p := range s.partitions {
		out = append(out, p)
	}
	return out
}

// prunePartition applies the policy to one partition.
func prunePartition(p *partition, policy domain.PrunePolicy) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	kept := p.turns[:0]
	if policy.MaxAge > 0 {
		cutoff := time.Now().Add(-policy.MaxAge)
		for _, turn := range p.turns {
			if turn.Timestamp.After(cutoff) {
				kept = append(kept, turn)
			}
		}
	} else {
		kept = p.turns
	}

	if policy.MaxTurns > 0 && len(kept) > policy.MaxTurns {
		// Turns are stored in append order; keep the newest tail.
		kept = kept[len(kept)-policy.MaxTurns:]
	}

	removed := len(p.turns) - len(kept)
	p.turns = append([]domain.ChatTurn(nil), kept...)
	return removed
}
