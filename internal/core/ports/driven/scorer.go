package driven

import "context"

// CorpusScorer computes a query's affinity to one corpus. The router's
// control flow (score each corpus independently, compare to the floor,
// pick one or fall back) is fixed; the scoring heuristic is pluggable
// so centroid similarity, keyword classifiers, or an LLM classifier
// can be swapped without touching routing logic.
//
// Scores must be comparable across corpora: normalise to [0,1].
type CorpusScorer interface {
	// Score returns the affinity of the query to the given corpus.
	// Both the raw query text and its embedding are provided so
	// heuristics can use either.
	Score(ctx context.Context, query string, queryVec []float32, idx CorpusIndex) (float64, error)
}
