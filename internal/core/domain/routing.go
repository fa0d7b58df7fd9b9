package domain

// Well-known corpus names. Additional corpora may be registered; these
// constants exist because the default deployment ships with them.
const (
	CorpusDocs    = "docs"
	CorpusTickets = "tickets"
	CorpusConfigs = "configs"
)

// RoutingDecision records which knowledge corpus answers a query, or
// that the query fell through to persona+memory generation. Produced
// once per query, never stored.
type RoutingDecision struct {
	// Corpus is the selected corpus name. Empty when Fallback is true.
	Corpus string

	// Fallback is true when no corpus cleared the confidence floor.
	// Fallback is a valid terminal routing state, not an error path.
	Fallback bool

	// Confidence is the winning corpus score, or the best score seen
	// when falling back.
	Confidence float64

	// Scores holds the per-corpus affinity scores that informed the
	// decision, for the observability boundary.
	Scores map[string]float64
}

// String returns the routing target for logs.
func (d RoutingDecision) String() string {
	if d.Fallback {
		return "fallback"
	}
	return d.Corpus
}
