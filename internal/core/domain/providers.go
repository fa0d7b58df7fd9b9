package domain

// AIProvider identifies a supported model provider.
type AIProvider string

// Supported providers.
const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLocal is the offline feature-hash embedder. Embedding
	// only; there is no local completion model.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderLocal:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable provider name.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI"
	case AIProviderAnthropic:
		return "Anthropic"
	case AIProviderLocal:
		return "Built-in feature hash (offline)"
	default:
		return "Not configured"
	}
}

// RequiresAPIKey returns true if the provider needs credentials.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if the provider runs on this machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// AllEmbeddingProviders lists providers that can produce embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderLocal}
}

// AllLLMProviders lists providers that can produce completions.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps providers to their default embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderLocal:  "local-feature-hash",
	}
}

// DefaultLLMModels maps providers to their default completion model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingSettings selects and configures the embedding provider.
type EmbeddingSettings struct {
	// Provider is one of ollama, openai, or local.
	Provider AIProvider

	// Model is the provider-specific model name.
	Model string

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string

	// APIKey authenticates hosted providers. Unused for ollama and local.
	APIKey string

	// Dimensions overrides the vector size where the model supports it.
	Dimensions int
}

// IsConfigured reports whether the settings name a provider.
func (s EmbeddingSettings) IsConfigured() bool {
	return s.Provider != ""
}

// LLMSettings selects and configures the completion provider.
type LLMSettings struct {
	// Provider is one of ollama, openai, or anthropic.
	Provider AIProvider

	// Model is the provider-specific model name.
	Model string

	// BaseURL overrides the provider endpoint. Optional.
	BaseURL string

	// APIKey authenticates hosted providers. Unused for ollama.
	APIKey string
}

// IsConfigured reports whether the settings name a provider.
func (s LLMSettings) IsConfigured() bool {
	return s.Provider != ""
}

// EmbeddingDimensions returns known vector sizes per model. Models not
// listed fall back to the provider default.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"nomic-embed-text":       768,
		"all-minilm":             384,
	}
}
