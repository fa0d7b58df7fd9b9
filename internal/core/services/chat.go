package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure ChatPipeline implements the interface.
var _ driving.ChatService = (*ChatPipeline)(nil)

// anonymousUserID scopes memory for requests without a user.
const anonymousUserID = "anonymous"

// ChatPipeline is the end-to-end answer flow: embed the query, route it
// to a corpus or the fallback, assemble bounded context, generate the
// answer, then record the exchange into chat memory asynchronously.
//
// Failure policy: retrieval failures on the selected corpus degrade to
// fallback rather than aborting; memory writes never affect the
// response; only generation failures and complete unavailability reach
// the caller.
type ChatPipeline struct {
	embedder  driven.EmbeddingService
	router    *Router
	assembler *ContextAssembler
	generator *AnswerGenerator
	writer    *MemoryWriter
	settings  domain.Settings
}

// NewChatPipeline wires the pipeline stages together.
func NewChatPipeline(
	embedder driven.EmbeddingService,
	router *Router,
	assembler *ContextAssembler,
	generator *AnswerGenerator,
	writer *MemoryWriter,
	settings domain.Settings,
) *ChatPipeline {
	return &ChatPipeline{
		embedder:  embedder,
		router:    router,
		assembler: assembler,
		generator: generator,
		writer:    writer,
		settings:  settings,
	}
}

// Answer executes one pipeline run.
func (p *ChatPipeline) Answer(ctx context.Context, req driving.AnswerRequest) (driving.AnswerResult, error) {
	started := time.Now()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return driving.AnswerResult{}, fmt.Errorf("%w: query cannot be empty", domain.ErrInvalidInput)
	}

	userID := req.UserID
	if userID == "" {
		userID = anonymousUserID
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.Debug("Generated session ID %s", sessionID)
	}
	persona := req.Persona.WithDefaults(p.settings.PersonaDefaults)

	// The pipeline deadline is caller-driven; apply the configured
	// default only when the caller set none.
	if _, ok := ctx.Deadline(); !ok && p.settings.PipelineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.PipelineTimeout)
		defer cancel()
	}

	result, err := p.answer(ctx, query, userID, sessionID, persona)
	result.Trace.Elapsed = time.Since(started)
	result.Trace.ErrKind = domain.ErrKind(err)
	p.logInteraction(userID, query, result, err)
	return result, err
}

// answer runs the routed retrieval and generation stages.
func (p *ChatPipeline) answer(
	ctx context.Context,
	query, userID, sessionID string,
	persona domain.Persona,
) (driving.AnswerResult, error) {
	result := driving.AnswerResult{SessionID: sessionID}

	queryVec, err := p.embedQuery(ctx, query)
	if err != nil {
		return result, fmt.Errorf("%w: embed query: %v", domain.ErrEmbeddingFailure, err)
	}

	decision := p.router.Route(ctx, query, queryVec)

	rc, truncated, err := p.assembler.Assemble(ctx, decision, queryVec, userID)
	if err != nil {
		if ctx.Err() != nil {
			// Deadline expired mid-retrieval: surface the timeout, never
			// a partial answer.
			return result, fmt.Errorf("assemble context: %w", ctx.Err())
		}
		// Primary corpus retrieval failed: degrade to the fallback path
		// instead of failing the request.
		logger.Warn("Retrieval on %q failed, degrading to fallback: %v", decision.String(), err)
		decision = domain.RoutingDecision{Fallback: true, Scores: decision.Scores}
		rc, truncated, err = p.assembler.Assemble(ctx, decision, queryVec, userID)
		if err != nil {
			return result, fmt.Errorf("assemble fallback context: %w", err)
		}
	}

	result.Trace = domain.RequestTrace{
		Routing:       decision,
		EvidenceCount: len(rc.Evidence),
		HistoryCount:  len(rc.History),
		Truncated:     truncated,
	}

	answer, err := p.generator.Generate(ctx, decision, rc, persona, query)
	if err != nil {
		return result, fmt.Errorf("generate answer: %w", err)
	}
	result.Response = answer

	// Fire-and-forget: the response must not wait for memory writes.
	if p.writer != nil {
		p.writer.RecordExchange(userID, sessionID, query, answer)
	}

	return result, nil
}

// embedQuery embeds the query text, retrying once on transient failure
// since this is a synchronous path the whole request depends on.
func (p *ChatPipeline) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if p.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err == nil {
		return vec, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	logger.Warn("Query embedding failed, retrying once: %v", err)
	return p.embedder.Embed(ctx, query)
}

// logInteraction emits the per-request observability record.
func (p *ChatPipeline) logInteraction(userID, query string, result driving.AnswerResult, err error) {
	if err != nil {
		logger.Error("Interaction: user=%q route=%s err=%s: %v",
			userID, result.Trace.Routing.String(), result.Trace.ErrKind, err)
		return
	}
	logger.Info("Interaction: user=%q route=%s evidence=%d history=%d truncated=%t elapsed=%s response=%q",
		userID, result.Trace.Routing.String(), result.Trace.EvidenceCount,
		result.Trace.HistoryCount, result.Trace.Truncated,
		result.Trace.Elapsed.Round(time.Millisecond), preview(result.Response, 80))
}

// preview shortens text for log lines.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close waits for in-flight memory writes to finish.
func (p *ChatPipeline) Close() error {
	if p.writer != nil {
		p.writer.Wait()
	}
	return nil
}
