package services

import (
	"fmt"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyTopK             = "retrieval.top_k"
	keyChatHistoryLimit = "retrieval.chat_history_limit"
	keyConfidenceFloor  = "retrieval.confidence_floor"
	keyMemoryScoreFloor = "retrieval.memory_score_floor"
	keyContextBudget    = "retrieval.context_budget"
	keyCorpusPriority   = "retrieval.corpus_priority"
	keyPersonaRole      = "persona.role"
	keyPersonaPrefs     = "persona.preferences"
	keyPersonaActivity  = "persona.activity"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedDimensions  = "embedding.dimensions"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (driving.AppSettings, error) {
	retrieval := domain.DefaultSettings()

	retrieval.TopK = s.getInt(keyTopK, retrieval.TopK)
	retrieval.ChatHistoryLimit = s.getInt(keyChatHistoryLimit, retrieval.ChatHistoryLimit)
	retrieval.ConfidenceFloor = s.getFloat(keyConfidenceFloor, retrieval.ConfidenceFloor)
	retrieval.MemoryScoreFloor = s.getFloat(keyMemoryScoreFloor, retrieval.MemoryScoreFloor)
	retrieval.ContextBudget = s.getInt(keyContextBudget, retrieval.ContextBudget)
	if priority := s.configStore.GetStringSlice(keyCorpusPriority); len(priority) > 0 {
		retrieval.CorpusPriority = priority
	}
	retrieval.PersonaDefaults.Role = s.getString(keyPersonaRole, retrieval.PersonaDefaults.Role)
	retrieval.PersonaDefaults.Preferences = s.getString(keyPersonaPrefs, retrieval.PersonaDefaults.Preferences)
	retrieval.PersonaDefaults.Activity = s.getString(keyPersonaActivity, retrieval.PersonaDefaults.Activity)

	settings := driving.AppSettings{
		Retrieval: retrieval,
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(keyEmbedProvider),
			Model:      s.configStore.GetString(keyEmbedModel),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: s.configStore.GetInt(keyEmbedDimensions),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings driving.AppSettings) error {
	if err := settings.Retrieval.Validate(); err != nil {
		return err
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}
	if err := s.configStore.Set(keyChatHistoryLimit, settings.Retrieval.ChatHistoryLimit); err != nil {
		return fmt.Errorf("save chat_history_limit: %w", err)
	}
	if err := s.configStore.Set(keyConfidenceFloor, settings.Retrieval.ConfidenceFloor); err != nil {
		return fmt.Errorf("save confidence_floor: %w", err)
	}
	if err := s.configStore.Set(keyMemoryScoreFloor, settings.Retrieval.MemoryScoreFloor); err != nil {
		return fmt.Errorf("save memory_score_floor: %w", err)
	}
	if err := s.configStore.Set(keyContextBudget, settings.Retrieval.ContextBudget); err != nil {
		return fmt.Errorf("save context_budget: %w", err)
	}
	if err := s.configStore.Set(keyCorpusPriority, settings.Retrieval.CorpusPriority); err != nil {
		return fmt.Errorf("save corpus_priority: %w", err)
	}
	if err := s.configStore.Set(keyPersonaRole, settings.Retrieval.PersonaDefaults.Role); err != nil {
		return fmt.Errorf("save persona role: %w", err)
	}
	if err := s.configStore.Set(keyPersonaPrefs, settings.Retrieval.PersonaDefaults.Preferences); err != nil {
		return fmt.Errorf("save persona preferences: %w", err)
	}
	if err := s.configStore.Set(keyPersonaActivity, settings.Retrieval.PersonaDefaults.Activity); err != nil {
		return fmt.Errorf("save persona activity: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.Embedding.Dimensions > 0 {
		if err := s.configStore.Set(keyEmbedDimensions, settings.Embedding.Dimensions); err != nil {
			return fmt.Errorf("save embedding dimensions: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidInput, provider)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Track the model's vector size so index fingerprints line up
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || provider == domain.AIProviderLocal {
		return fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider == domain.AIProviderOllama {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Retrieval.Validate()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return ""
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return ""
	}
	return provider
}
