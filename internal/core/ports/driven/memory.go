package driven

import (
	"context"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

// MemoryStore is the semantic chat memory: an append-heavy, similarity
// searchable store of conversation turns, partitioned by user.
//
// Isolation is a hard invariant: SearchByUser never returns another
// user's turns, even if their embeddings score higher.
type MemoryStore interface {
	// Append inserts a turn. The turn must already carry its embedding;
	// embedding happens in the memory writer so a slow provider never
	// holds the store's write lock.
	Append(ctx context.Context, turn domain.ChatTurn) error

	// SearchByUser returns up to k of the user's own turns most similar
	// to the query embedding, ordered by descending similarity.
	SearchByUser(ctx context.Context, userID string, query []float32, k int) ([]MemoryHit, error)

	// Prune evicts turns per the policy. Deletion is irreversible;
	// pruned turns must never reappear in subsequent searches.
	Prune(ctx context.Context, policy domain.PrunePolicy) (int, error)

	// Clear removes all turns for one user, or every user when userID
	// is empty. Returns the number of turns removed.
	Clear(ctx context.Context, userID string) (int, error)

	// Stats reports retrievable turn counts for operators.
	Stats(ctx context.Context) (domain.MemoryStats, error)
}

// MemoryHit is one memory search result.
type MemoryHit struct {
	// Turn is the matched chat turn.
	Turn domain.ChatTurn

	// Score is the cosine similarity (0-1).
	Score float64
}

// MemorySink receives a copy of every appended turn for audit-grade
// history. Sinks sit behind the same append contract as the vector
// store so a relational backend can be added without restructuring the
// memory writer. Sink failures are logged, never propagated.
type MemorySink interface {
	// Record persists one turn.
	Record(ctx context.Context, turn domain.ChatTurn) error

	// Close releases resources.
	Close() error
}

// MemoryArchive is a sink whose history can be read back and
// maintained. The in-process store is rebuilt from the archive on
// startup, so the archive must honour the same lifecycle: turns pruned
// or cleared from the store are removed here too, otherwise they would
// resurrect on the next rebuild.
type MemoryArchive interface {
	MemorySink

	// All returns every recorded turn, oldest first.
	All(ctx context.Context) ([]domain.ChatTurn, error)

	// Prune evicts turns per the policy.
	Prune(ctx context.Context, policy domain.PrunePolicy) (int, error)

	// Clear removes all turns for one user, or every user when userID
	// is empty. Returns the number of turns removed.
	Clear(ctx context.Context, userID string) (int, error)
}
