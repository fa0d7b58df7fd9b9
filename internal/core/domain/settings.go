package domain

import (
	"fmt"
	"time"
)

// Settings bounds for validation.
const (
	MinTopK             = 1
	MaxTopK             = 10
	MinChatHistoryLimit = 1
	MaxChatHistoryLimit = 20
)

// Default retrieval settings. Larger top-k values increase recall but
// cost more tokens at generation time.
const (
	DefaultTopK             = 3
	DefaultChatHistoryLimit = 5
	DefaultConfidenceFloor  = 0.25
	DefaultMemoryScoreFloor = 0.7
	DefaultContextBudget    = 6000
	DefaultPipelineTimeout  = 60 * time.Second
)

// Settings holds the tunable parameters of the answer pipeline.
type Settings struct {
	// TopK is the baseline number of chunks retrieved per corpus.
	TopK int

	// CorpusTopK overrides TopK per corpus. The default deployment
	// raises docs to max(TopK, 6) and tickets to max(TopK, 8) because
	// those corpora answer list-style questions.
	CorpusTopK map[string]int

	// ChatHistoryLimit is the number of memory turns retrieved per query.
	ChatHistoryLimit int

	// ConfidenceFloor is the minimum corpus affinity score required to
	// route to that corpus. All scores below the floor select fallback.
	ConfidenceFloor float64

	// MemoryScoreFloor filters out memory turns whose similarity falls
	// below this threshold, keeping history on-topic.
	MemoryScoreFloor float64

	// ContextBudget is the maximum assembled context size in characters.
	ContextBudget int

	// CorpusPriority is the deterministic tie-break order when two
	// corpora score equally above the floor. Earlier wins.
	CorpusPriority []string

	// PipelineTimeout bounds one request cycle end to end.
	PipelineTimeout time.Duration

	// PersonaDefaults seeds requests that omit persona fields.
	PersonaDefaults Persona
}

// DefaultSettings returns settings matching the default deployment.
func DefaultSettings() Settings {
	return Settings{
		TopK: DefaultTopK,
		CorpusTopK: map[string]int{
			CorpusDocs:    6,
			CorpusTickets: 8,
		},
		ChatHistoryLimit: DefaultChatHistoryLimit,
		ConfidenceFloor:  DefaultConfidenceFloor,
		MemoryScoreFloor: DefaultMemoryScoreFloor,
		ContextBudget:    DefaultContextBudget,
		CorpusPriority:   []string{CorpusDocs, CorpusTickets, CorpusConfigs},
		PipelineTimeout:  DefaultPipelineTimeout,
		PersonaDefaults: Persona{
			Role:        DefaultPersonaRole,
			Preferences: DefaultPersonaPreferences,
			Activity:    DefaultPersonaActivity,
		},
	}
}

// TopKFor returns the retrieval depth for the named corpus, applying
// per-corpus overrides. Overrides never lower the baseline.
func (s Settings) TopKFor(corpus string) int {
	k := s.TopK
	if k <= 0 {
		k = DefaultTopK
	}
	if override, ok := s.CorpusTopK[corpus]; ok && override > k {
		k = override
	}
	return k
}

// Validate checks settings bounds.
func (s Settings) Validate() error {
	if s.TopK < MinTopK || s.TopK > MaxTopK {
		return fmt.Errorf("%w: top_k must be between %d and %d", ErrInvalidInput, MinTopK, MaxTopK)
	}
	if s.ChatHistoryLimit < MinChatHistoryLimit || s.ChatHistoryLimit > MaxChatHistoryLimit {
		return fmt.Errorf("%w: chat_history_limit must be between %d and %d",
			ErrInvalidInput, MinChatHistoryLimit, MaxChatHistoryLimit)
	}
	if s.ConfidenceFloor < 0 || s.ConfidenceFloor > 1 {
		return fmt.Errorf("%w: confidence_floor must be between 0 and 1", ErrInvalidInput)
	}
	if s.MemoryScoreFloor < 0 || s.MemoryScoreFloor > 1 {
		return fmt.Errorf("%w: memory_score_floor must be between 0 and 1", ErrInvalidInput)
	}
	if s.ContextBudget <= 0 {
		return fmt.Errorf("%w: context_budget must be positive", ErrInvalidInput)
	}
	return nil
}
