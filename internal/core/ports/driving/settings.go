package driving

import "github.com/camber-labs/ragdesk/internal/core/domain"

// AppSettings is the full persisted configuration surface.
type AppSettings struct {
	// Retrieval tunes the answer pipeline.
	Retrieval domain.Settings

	// Embedding selects the embedding provider.
	Embedding domain.EmbeddingSettings

	// LLM selects the completion provider.
	LLM domain.LLMSettings
}

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get retrieves current settings, applying defaults for unset keys.
	Get() (AppSettings, error)

	// Save persists settings.
	Save(settings AppSettings) error

	// SetEmbeddingProvider configures the embedding provider, filling in
	// the provider's default model when model is empty.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the completion provider, filling in the
	// provider's default model when model is empty.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks that current settings are internally consistent.
	Validate() error
}
