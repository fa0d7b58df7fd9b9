package domain

import "time"

// ItemKind distinguishes the two context segment sources.
type ItemKind string

// Retrieved item kinds.
const (
	// ItemChunk is knowledge evidence from a corpus index.
	ItemChunk ItemKind = "chunk"

	// ItemTurn is conversational history from chat memory.
	ItemTurn ItemKind = "turn"
)

// RetrievedItem is a single piece of retrieved context with its
// relevance score. Transient; consumed once by the answer generator.
type RetrievedItem struct {
	// Kind is chunk or turn.
	Kind ItemKind

	// ID is the source chunk or turn ID.
	ID string

	// Text is the retrievable content.
	Text string

	// Score is the similarity score (descending order within a segment).
	Score float64

	// Corpus is set for chunks: the corpus that produced the item.
	Corpus string

	// Role is set for turns: who authored the remembered turn.
	Role Role
}

// RetrievedContext is the assembled, bounded context payload handed to
// the answer generator. Evidence and History are kept as separate
// labelled segments and never interleaved: they answer different
// questions (what do we know vs. what did we already say).
type RetrievedContext struct {
	// Evidence holds corpus chunks, highest score first.
	Evidence []RetrievedItem

	// History holds the user's own prior turns, highest score first.
	History []RetrievedItem
}

// Empty returns true when neither segment has items.
func (c RetrievedContext) Empty() bool {
	return len(c.Evidence) == 0 && len(c.History) == 0
}

// Size returns the total character count of all item text, which is
// what the assembler's budget constrains.
func (c RetrievedContext) Size() int {
	n := 0
	for _, it := range c.Evidence {
		n += len(it.Text)
	}
	for _, it := range c.History {
		n += len(it.Text)
	}
	return n
}

// RequestTrace is the per-request observability record emitted to the
// logging collaborator. Structured enough for external correlation; no
// requirement is placed on log format itself.
type RequestTrace struct {
	// Routing is the decision taken for this request.
	Routing RoutingDecision

	// EvidenceCount is the number of corpus chunks in the final context.
	EvidenceCount int

	// HistoryCount is the number of memory turns in the final context.
	HistoryCount int

	// Truncated is true if the assembler dropped items to fit the budget.
	Truncated bool

	// Elapsed is the total pipeline duration.
	Elapsed time.Duration

	// ErrKind classifies the pipeline error, empty on success.
	ErrKind string
}
