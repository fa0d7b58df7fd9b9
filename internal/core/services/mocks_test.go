package services

import (
	"context"
	"sync"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/vector"
)

// --- Mock implementations shared across service tests ---

// mockEmbedding implements driven.EmbeddingService. It hashes each rune
// into a small fixed vector so distinct texts get distinct, stable
// embeddings without a provider. Set failN to fail the first N calls
// with embedErr (transient failure); set sticky to fail every call.
type mockEmbedding struct {
	mu       sync.Mutex
	embedErr error
	failN    int
	sticky   bool
	calls    int
	fixed    []float32 // when set, returned for every text
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.sticky && m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failN > 0 {
		m.failN--
		return nil, m.embedErr
	}
	if m.fixed != nil {
		return m.fixed, nil
	}
	return deterministicVec(text), nil
}

func (m *mockEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedding) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbedding) Dimensions() int      { return 8 }
func (m *mockEmbedding) ModelName() string    { return "mock-embed" }
func (m *mockEmbedding) Fingerprint() string  { return "mock-embed:8" }
func (m *mockEmbedding) Ping(_ context.Context) error { return nil }
func (m *mockEmbedding) Close() error         { return nil }

// deterministicVec maps text to a stable unit vector.
func deterministicVec(text string) []float32 {
	v := make([]float32, 8)
	for i, r := range text {
		v[(i+int(r))%8] += float32(r%13) + 1
	}
	return vector.Normalize(v)
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu       sync.Mutex
	response string
	genErr   error
	prompts  []string // captured Generate prompts
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.response, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return m.response, m.genErr
}

func (m *mockLLM) ModelName() string              { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error   { return nil }
func (m *mockLLM) Close() error                   { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockIndex implements driven.CorpusIndex over a fixed chunk set.
type mockIndex struct {
	name      string
	chunks    []domain.Chunk
	searchErr error
}

func (m *mockIndex) Name() string { return m.name }

func (m *mockIndex) Search(ctx context.Context, query []float32, k int) ([]driven.CorpusHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := make([]driven.CorpusHit, 0, len(m.chunks))
	for _, c := range m.chunks {
		hits = append(hits, driven.CorpusHit{Chunk: c, Score: vector.Cosine(query, c.Embedding)})
	}
	// Insertion sort by descending score keeps the mock dependency-free.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Score > hits[j-1].Score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *mockIndex) Centroid() []float32 {
	vecs := make([][]float32, len(m.chunks))
	for i, c := range m.chunks {
		vecs[i] = c.Embedding
	}
	return vector.Centroid(vecs)
}

func (m *mockIndex) Len() int            { return len(m.chunks) }
func (m *mockIndex) Fingerprint() string { return "mock-embed:8" }

// mockRegistry implements driven.IndexRegistry.
type mockRegistry struct {
	mu      sync.RWMutex
	order   []string
	indexes map[string]driven.CorpusIndex
}

func newMockRegistry(indexes ...driven.CorpusIndex) *mockRegistry {
	r := &mockRegistry{indexes: make(map[string]driven.CorpusIndex)}
	for _, idx := range indexes {
		r.order = append(r.order, idx.Name())
		r.indexes[idx.Name()] = idx
	}
	return r
}

func (r *mockRegistry) Get(name string) (driven.CorpusIndex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexes[name]
	if !ok {
		return nil, domain.NewIndexUnavailable(name)
	}
	return idx, nil
}

func (r *mockRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *mockRegistry) Swap(name string, idx driven.CorpusIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.indexes[name]; !ok {
		r.order = append(r.order, name)
	}
	r.indexes[name] = idx
}

// mockMemory implements driven.MemoryStore.
type mockMemory struct {
	mu        sync.Mutex
	turns     []domain.ChatTurn
	appendErr error
	searchErr error
}

func (m *mockMemory) Append(_ context.Context, turn domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockMemory) SearchByUser(_ context.Context, userID string, query []float32, k int) ([]driven.MemoryHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := make([]driven.MemoryHit, 0, k)
	for _, t := range m.turns {
		if t.UserID != userID {
			continue
		}
		hits = append(hits, driven.MemoryHit{Turn: t, Score: vector.Cosine(query, t.Embedding)})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

func (m *mockMemory) Prune(_ context.Context, _ domain.PrunePolicy) (int, error) { return 0, nil }
func (m *mockMemory) Clear(_ context.Context, _ string) (int, error)             { return 0, nil }

func (m *mockMemory) Stats(_ context.Context) (domain.MemoryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.MemoryStats{TotalTurns: len(m.turns)}, nil
}

func (m *mockMemory) stored() []domain.ChatTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatTurn(nil), m.turns...)
}

// mockSink implements driven.MemoryArchive.
type mockSink struct {
	mu        sync.Mutex
	recorded  []domain.ChatTurn
	recordErr error
	maintErr  error
	pruned    []domain.PrunePolicy
	cleared   []string
}

func (m *mockSink) Record(_ context.Context, turn domain.ChatTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, turn)
	return nil
}

func (m *mockSink) All(_ context.Context) ([]domain.ChatTurn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ChatTurn(nil), m.recorded...), nil
}

func (m *mockSink) Prune(_ context.Context, policy domain.PrunePolicy) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maintErr != nil {
		return 0, m.maintErr
	}
	m.pruned = append(m.pruned, policy)
	return 0, nil
}

func (m *mockSink) Clear(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maintErr != nil {
		return 0, m.maintErr
	}
	m.cleared = append(m.cleared, userID)
	return 0, nil
}

func (m *mockSink) Close() error { return nil }

func (m *mockSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recorded)
}

// mockScorer implements driven.CorpusScorer with fixed per-corpus scores.
type mockScorer struct {
	scores map[string]float64
	errs   map[string]error
}

func (m *mockScorer) Score(_ context.Context, _ string, _ []float32, idx driven.CorpusIndex) (float64, error) {
	if err, ok := m.errs[idx.Name()]; ok {
		return 0, err
	}
	return m.scores[idx.Name()], nil
}

// mockIndexStore implements driven.IndexStore.
type mockIndexStore struct {
	buildErr error
	built    map[string][]domain.Chunk
}

func (m *mockIndexStore) Build(_ context.Context, corpus string, chunks []domain.Chunk, _ string) (driven.CorpusIndex, error) {
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	if m.built == nil {
		m.built = make(map[string][]domain.Chunk)
	}
	m.built[corpus] = chunks
	return &mockIndex{name: corpus, chunks: chunks}, nil
}

func (m *mockIndexStore) Load(_ context.Context, corpus string, _ string) (driven.CorpusIndex, error) {
	chunks, ok := m.built[corpus]
	if !ok {
		return nil, domain.NewIndexUnavailable(corpus)
	}
	return &mockIndex{name: corpus, chunks: chunks}, nil
}
