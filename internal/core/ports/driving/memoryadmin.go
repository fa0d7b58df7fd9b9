package driving

import (
	"context"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

// MemoryAdmin exposes chat memory maintenance to operators.
type MemoryAdmin interface {
	// Prune evicts turns per the policy and returns the eviction count.
	Prune(ctx context.Context, policy domain.PrunePolicy) (int, error)

	// Clear removes all turns for a user (or everyone when userID is
	// empty) and returns the removal count.
	Clear(ctx context.Context, userID string) (int, error)

	// Stats reports retrievable turn counts.
	Stats(ctx context.Context) (domain.MemoryStats, error)
}
