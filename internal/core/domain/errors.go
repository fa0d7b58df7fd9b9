package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexUnavailable indicates a corpus index is missing or was never
	// built. Use IndexUnavailableError to carry the corpus name.
	ErrIndexUnavailable = errors.New("corpus index unavailable")

	// ErrEmbeddingFailure indicates the embedding provider failed.
	// Synchronous paths retry once; async memory writes log and drop.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrGenerationFailed indicates the language model provider failed
	// (timeout, rate limit, auth). Surfaced to the caller, never retried
	// inside the generator.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrIsolationViolation indicates a memory search returned another
	// user's turn. This is a programming defect, not a recoverable
	// runtime condition.
	ErrIsolationViolation = errors.New("memory isolation violation")

	// ErrFingerprintMismatch indicates an index artifact was built with a
	// different embedding model than the one currently configured.
	// Mixing embedding versions silently breaks similarity ranking, so
	// the artifact is rejected at load time.
	ErrFingerprintMismatch = errors.New("embedding fingerprint mismatch")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// IndexUnavailableError reports a missing or unbuilt corpus index.
// It names the corpus so operators know which index to rebuild.
type IndexUnavailableError struct {
	Corpus string
}

// Error implements the error interface.
func (e *IndexUnavailableError) Error() string {
	return fmt.Sprintf("corpus index unavailable: %q (run 'ragdesk index build %s' to create it)", e.Corpus, e.Corpus)
}

// Unwrap allows errors.Is(err, ErrIndexUnavailable) to match.
func (e *IndexUnavailableError) Unwrap() error {
	return ErrIndexUnavailable
}

// NewIndexUnavailable creates an IndexUnavailableError for the named corpus.
func NewIndexUnavailable(corpus string) error {
	return &IndexUnavailableError{Corpus: corpus}
}

// ErrKind classifies an error into the stable taxonomy emitted at the
// observability boundary. Returns an empty string for nil.
func ErrKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIndexUnavailable):
		return "index_unavailable"
	case errors.Is(err, ErrEmbeddingFailure):
		return "embedding_failure"
	case errors.Is(err, ErrGenerationFailed):
		return "generation_failed"
	case errors.Is(err, ErrIsolationViolation):
		return "isolation_violation"
	case errors.Is(err, ErrFingerprintMismatch):
		return "fingerprint_mismatch"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
