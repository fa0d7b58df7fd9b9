package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure AnswerGenerator can take customised prompts.
var _ driven.PromptStoreAware = (*AnswerGenerator)(nil)

// Default prompt templates, used when no PromptStore is configured or a
// named prompt is missing from it.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultGeneratorPrompts = map[string]string{
	driven.PromptGrounded: `You are a helpful assistant supporting a %s.
User preferences: %s
Recent activity: %s

Answer using the knowledge evidence below. Ground every claim in it; if the evidence lists multiple items (for example, several tickets), reason over each entry before answering. If the necessary information is not present, say so explicitly.

Knowledge evidence:
%s

Conversational history:
%s

Question:
%s`,

	driven.PromptFallback: `You are a helpful assistant supporting a %s, grounded in the persona details and prior conversation below.
User preferences: %s
Recent activity: %s

Conversational history:
%s

Question:
%s`,
}

// apologyResponse replaces an empty model completion so the caller
// always receives usable text.
const apologyResponse = "I'm sorry, I couldn't generate a response with the available context."

// emptySegmentPlaceholder stands in for a segment with no items.
const emptySegmentPlaceholder = "None"

// AnswerGenerator turns assembled context into a response via the
// language model. It is a pure, single-attempt transformation: provider
// errors surface as ErrGenerationFailed and retry policy belongs to
// the caller.
type AnswerGenerator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    driven.GenerateOptions
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(llm driven.LLMService) *AnswerGenerator {
	return &AnswerGenerator{
		llm: llm,
		opts: driven.GenerateOptions{
			// Some creativity while keeping responses focused.
			Temperature: 0.7,
		},
	}
}

// SetPromptStore sets the store for user-customised prompt templates.
func (g *AnswerGenerator) SetPromptStore(store driven.PromptStore) {
	g.prompts = store
}

// Generate produces the final answer. The prompt template is fixed by
// the routing outcome: corpus-grounded when a corpus was selected,
// persona+history otherwise.
func (g *AnswerGenerator) Generate(
	ctx context.Context,
	decision domain.RoutingDecision,
	rc domain.RetrievedContext,
	persona domain.Persona,
	query string,
) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("generate: %w", domain.ErrLLMUnavailable)
	}

	logger.Section("Answer Generation")

	prompt := g.buildPrompt(decision, rc, persona, query)
	logger.Debug("Prompt: %d chars, template=%s", len(prompt), g.templateName(decision))

	answer, err := g.llm.Generate(ctx, prompt, g.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrGenerationFailed, g.llm.ModelName(), err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		logger.Warn("Model returned empty completion, substituting apology")
		return apologyResponse, nil
	}
	return answer, nil
}

// templateName returns the prompt name for the routing outcome.
func (g *AnswerGenerator) templateName(decision domain.RoutingDecision) string {
	if decision.Fallback {
		return driven.PromptFallback
	}
	return driven.PromptGrounded
}

// buildPrompt renders the template with persona, labelled context
// segments, and the query.
func (g *AnswerGenerator) buildPrompt(
	decision domain.RoutingDecision,
	rc domain.RetrievedContext,
	persona domain.Persona,
	query string,
) string {
	name := g.templateName(decision)
	template := defaultGeneratorPrompts[name]
	if g.prompts != nil {
		if p, err := g.prompts.Load(name); err == nil && p != "" {
			template = p
		}
	}

	history := renderHistory(rc.History)
	if decision.Fallback {
		return fmt.Sprintf(template,
			persona.Role, persona.Preferences, persona.Activity, history, query)
	}

	evidence := renderEvidence(rc.Evidence)
	return fmt.Sprintf(template,
		persona.Role, persona.Preferences, persona.Activity, evidence, history, query)
}

// renderEvidence formats corpus chunks as a numbered list.
func renderEvidence(items []domain.RetrievedItem) string {
	if len(items) == 0 {
		return emptySegmentPlaceholder
	}
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, it.Corpus, it.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderHistory formats memory turns as "role: text" lines.
func renderHistory(items []domain.RetrievedItem) string {
	if len(items) == 0 {
		return emptySegmentPlaceholder
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s: %s\n", it.Role, it.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
