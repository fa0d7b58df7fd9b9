package cli

import (
	"context"
	"fmt"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driving"
)

// setupTestServices installs mock services and returns a cleanup that
// restores the originals. Installing a settings service also short
// circuits service wiring in PersistentPreRunE.
func setupTestServices() func() {
	oldSettings := settingsService
	oldChat := chatService
	oldIndex := indexService
	oldMemory := memoryService

	settingsService = &mockSettingsService{}
	chatService = &mockChatService{}
	indexService = &mockIndexAdmin{}
	memoryService = &mockMemoryAdmin{}

	return func() {
		settingsService = oldSettings
		chatService = oldChat
		indexService = oldIndex
		memoryService = oldMemory
	}
}

type mockSettingsService struct {
	saveErr error
}

func (m *mockSettingsService) Get() (driving.AppSettings, error) {
	return driving.AppSettings{Retrieval: domain.DefaultSettings()}, nil
}

func (m *mockSettingsService) Save(driving.AppSettings) error { return m.saveErr }

func (m *mockSettingsService) SetEmbeddingProvider(domain.AIProvider, string, string) error {
	return m.saveErr
}

func (m *mockSettingsService) SetLLMProvider(domain.AIProvider, string, string) error {
	return m.saveErr
}

func (m *mockSettingsService) Validate() error { return nil }

type mockChatService struct {
	err     error
	lastReq driving.AnswerRequest
}

func (m *mockChatService) Answer(_ context.Context, req driving.AnswerRequest) (driving.AnswerResult, error) {
	m.lastReq = req
	if m.err != nil {
		return driving.AnswerResult{}, m.err
	}
	return driving.AnswerResult{
		Response:  "Restart the ingest worker and re-run the sync.",
		SessionID: "session-test",
		Trace: domain.RequestTrace{
			Routing:       domain.RoutingDecision{Corpus: domain.CorpusDocs, Confidence: 0.82},
			EvidenceCount: 3,
			HistoryCount:  1,
		},
	}, nil
}

type mockIndexAdmin struct {
	buildErr error
}

func (m *mockIndexAdmin) Build(_ context.Context, corpus string, docs []driving.CorpusDocument) (driving.CorpusStatus, error) {
	if m.buildErr != nil {
		return driving.CorpusStatus{}, m.buildErr
	}
	return driving.CorpusStatus{
		Corpus:      corpus,
		Chunks:      len(docs),
		Fingerprint: "mock/embed:8",
		Available:   true,
	}, nil
}

func (m *mockIndexAdmin) Status(context.Context) ([]driving.CorpusStatus, error) {
	return []driving.CorpusStatus{
		{Corpus: domain.CorpusDocs, Chunks: 12, Fingerprint: "mock/embed:8", Available: true},
		{Corpus: domain.CorpusTickets, Available: false},
	}, nil
}

type mockMemoryAdmin struct {
	pruneErr   error
	lastPolicy domain.PrunePolicy
}

func (m *mockMemoryAdmin) Prune(_ context.Context, policy domain.PrunePolicy) (int, error) {
	m.lastPolicy = policy
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	return 4, nil
}

func (m *mockMemoryAdmin) Clear(_ context.Context, userID string) (int, error) {
	if userID == "" {
		return 7, nil
	}
	return 2, nil
}

func (m *mockMemoryAdmin) Stats(context.Context) (domain.MemoryStats, error) {
	return domain.MemoryStats{
		TotalTurns: 6,
		Users:      2,
		TurnsByUser: map[string]int{
			"alice": 4,
			"bob":   2,
		},
	}, nil
}

var errMock = fmt.Errorf("mock failure")
