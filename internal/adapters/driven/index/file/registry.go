package file

import (
	"context"
	"errors"
	"sync"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.IndexRegistry = (*Registry)(nil)

// Registry holds the live corpus indexes behind a read-write lock.
// Swap replaces a whole index pointer, so readers see either the old
// or the new index and never a partial rebuild.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	indexes map[string]driven.CorpusIndex
}

// NewRegistry creates an empty registry. Corpus names are reported in
// registration order, so registering in priority order gives the
// router its deterministic tie-break for free.
func NewRegistry() *Registry {
	return &Registry{indexes: make(map[string]driven.CorpusIndex)}
}

// LoadAll loads the named corpora from the store into a fresh registry.
// A missing artifact registers nothing for that corpus and is logged;
// queries routed to it surface an IndexUnavailableError naming it. A
// fingerprint mismatch aborts, since serving misranked results from a
// stale index is worse than serving none.
func LoadAll(
	ctx context.Context, store *Store, corpora []string, fingerprint string,
) (*Registry, error) {
	r := NewRegistry()
	for _, corpus := range corpora {
		idx, err := store.Load(ctx, corpus, fingerprint)
		if err != nil {
			if errors.Is(err, domain.ErrIndexUnavailable) {
				logger.Warn("Corpus %q has no index artifact, skipping", corpus)
				continue
			}
			return nil, err
		}
		r.Swap(corpus, idx)
	}
	return r, nil
}

// Get returns the index for the named corpus.
func (r *Registry) Get(name string) (driven.CorpusIndex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.indexes[name]
	if !ok {
		return nil, domain.NewIndexUnavailable(name)
	}
	return idx, nil
}

// Names returns registered corpus names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Swap atomically replaces the index for the named corpus, registering
// it if absent.
func (r *Registry) Swap(name string, idx driven.CorpusIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.indexes[name]; !ok {
		r.order = append(r.order, name)
	}
	r.indexes[name] = idx
}
