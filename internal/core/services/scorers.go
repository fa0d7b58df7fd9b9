package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
	"github.com/camber-labs/ragdesk/internal/vector"
)

// Ensure scorers implement the interface.
var (
	_ driven.CorpusScorer = (*CentroidScorer)(nil)
	_ driven.CorpusScorer = (*LLMScorer)(nil)
)

// CentroidScorer scores a query's affinity to a corpus as the cosine
// similarity between the query embedding and the corpus centroid.
// Deterministic and cheap: no extra provider calls at query time.
type CentroidScorer struct{}

// NewCentroidScorer creates the default routing scorer.
func NewCentroidScorer() *CentroidScorer {
	return &CentroidScorer{}
}

// Score returns cosine(queryVec, centroid), 0 for an empty corpus.
func (s *CentroidScorer) Score(
	_ context.Context, _ string, queryVec []float32, idx driven.CorpusIndex,
) (float64, error) {
	centroid := idx.Centroid()
	if centroid == nil {
		return 0, nil
	}
	return vector.Cosine(queryVec, centroid), nil
}

// LLMScorer asks the language model to name the best corpus for a
// query. The model's pick scores 1.0 and everything else 0.0, which
// maps cleanly onto the router's confidence floor: an unrecognised or
// refused answer scores every corpus 0 and the router falls back.
//
// The classification is a single shared call per query; results are
// memoised per scorer instance keyed by query text.
type LLMScorer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	corpora []string

	mu   sync.Mutex
	memo map[string]string
}

// NewLLMScorer creates an LLM-backed routing scorer for the given
// corpus names. The prompt store is optional; nil uses the built-in
// classifier prompt.
func NewLLMScorer(llm driven.LLMService, prompts driven.PromptStore, corpora []string) *LLMScorer {
	return &LLMScorer{
		llm:     llm,
		prompts: prompts,
		corpora: corpora,
		memo:    make(map[string]string),
	}
}

const defaultRouteClassifierPrompt = `You route support questions to a knowledge corpus.
Available corpora: %s.
Reply with exactly one corpus name, or "none" if no corpus fits.

Question: %s
Corpus:`

// Score classifies the query once and scores the picked corpus 1.0.
func (s *LLMScorer) Score(
	ctx context.Context, query string, _ []float32, idx driven.CorpusIndex,
) (float64, error) {
	pick, err := s.classify(ctx, query)
	if err != nil {
		return 0, err
	}
	if pick == idx.Name() {
		return 1.0, nil
	}
	return 0, nil
}

// classify asks the model which corpus should answer the query.
// One call per query: the router scores every corpus with the same
// scorer instance, so the answer is memoised by query text.
func (s *LLMScorer) classify(ctx context.Context, query string) (string, error) {
	s.mu.Lock()
	if pick, ok := s.memo[query]; ok {
		s.mu.Unlock()
		return pick, nil
	}
	s.mu.Unlock()

	template := defaultRouteClassifierPrompt
	if s.prompts != nil {
		if p, err := s.prompts.Load(driven.PromptRouteClassifier); err == nil && p != "" {
			template = p
		}
	}

	prompt := fmt.Sprintf(template, strings.Join(s.corpora, ", "), query)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   10,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("classify query: %w", err)
	}

	pick := strings.ToLower(strings.TrimSpace(answer))
	matched := ""
	for _, name := range s.corpora {
		if pick == name {
			matched = name
			break
		}
	}
	if matched == "" {
		logger.Debug("LLM classifier picked no corpus (answer %q)", pick)
	}

	s.mu.Lock()
	s.memo[query] = matched
	s.mu.Unlock()

	return matched, nil
}
