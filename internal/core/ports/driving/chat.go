package driving

import (
	"context"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

// AnswerRequest is one user query entering the pipeline. Query is
// required; everything else has sensible defaults.
type AnswerRequest struct {
	// Query is the user's question.
	Query string

	// UserID scopes chat memory. Defaults to "anonymous".
	UserID string

	// SessionID groups turns into a conversation. Generated when empty.
	SessionID string

	// Persona carries optional persona overrides; missing fields are
	// filled from configured defaults.
	Persona domain.Persona
}

// AnswerResult is the pipeline's response.
type AnswerResult struct {
	// Response is the generated answer text.
	Response string

	// SessionID echoes or supplies the conversation session.
	SessionID string

	// Trace is the observability record for this request.
	Trace domain.RequestTrace
}

// ChatService answers user queries by routing them to the best-matching
// knowledge corpus (or the persona+memory fallback), assembling
// retrieved context, and generating a grounded response.
type ChatService interface {
	// Answer executes one pipeline run. The context deadline bounds the
	// whole cycle; on expiry an error is returned, never a partial answer.
	Answer(ctx context.Context, req AnswerRequest) (AnswerResult, error)
}
