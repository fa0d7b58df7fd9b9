package services

import (
	"context"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Router decides which knowledge corpus answers a query, or that the
// query degrades to persona+memory generation. Each corpus is scored
// independently; exactly one corpus or the fallback is selected per
// query so answer provenance stays traceable to a single evidence
// source. Fallback is a valid terminal state: Route never returns an
// error for an ambiguous query.
type Router struct {
	registry driven.IndexRegistry
	scorer   driven.CorpusScorer
	settings domain.Settings
}

// NewRouter creates a router over the registered corpora.
func NewRouter(registry driven.IndexRegistry, scorer driven.CorpusScorer, settings domain.Settings) *Router {
	return &Router{
		registry: registry,
		scorer:   scorer,
		settings: settings,
	}
}

// Route scores every registered corpus and picks the winner.
//
// Selection is deterministic: the highest score at or above the
// confidence floor wins; exact ties go to the corpus listed earlier in
// the configured priority order. All scores below the floor select
// fallback. A corpus whose index or scorer errors is skipped with a
// warning rather than failing the query; if every corpus errors the
// decision is fallback.
func (r *Router) Route(ctx context.Context, query string, queryVec []float32) domain.RoutingDecision {
	logger.Section("Routing")

	decision := domain.RoutingDecision{
		Fallback: true,
		Scores:   make(map[string]float64),
	}

	for _, name := range r.orderedCorpora() {
		idx, err := r.registry.Get(name)
		if err != nil {
			logger.Warn("Routing: corpus %q unavailable: %v", name, err)
			continue
		}

		score, err := r.scorer.Score(ctx, query, queryVec, idx)
		if err != nil {
			logger.Warn("Routing: scoring %q failed: %v", name, err)
			continue
		}
		decision.Scores[name] = score
		logger.Debug("Routing: corpus=%q score=%.4f floor=%.4f", name, score, r.settings.ConfidenceFloor)

		if score < r.settings.ConfidenceFloor {
			continue
		}
		// Strict greater-than keeps the first corpus in priority order
		// on exact ties.
		if decision.Fallback || score > decision.Confidence {
			decision.Fallback = false
			decision.Corpus = name
			decision.Confidence = score
		}
	}

	if decision.Fallback {
		// Report the best score seen so operators can tune the floor.
		for _, s := range decision.Scores {
			if s > decision.Confidence {
				decision.Confidence = s
			}
		}
	}

	logger.Info("Routing decision: %s (confidence %.4f)", decision.String(), decision.Confidence)
	return decision
}

// orderedCorpora returns registry names re-ordered so that configured
// priority entries come first, preserving registry order for the rest.
func (r *Router) orderedCorpora() []string {
	names := r.registry.Names()
	if len(r.settings.CorpusPriority) == 0 {
		return names
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	ordered := make([]string, 0, len(names))
	taken := make(map[string]bool, len(names))
	for _, n := range r.settings.CorpusPriority {
		if present[n] && !taken[n] {
			ordered = append(ordered, n)
			taken[n] = true
		}
	}
	for _, n := range names {
		if !taken[n] {
			ordered = append(ordered, n)
		}
	}
	return ordered
}
