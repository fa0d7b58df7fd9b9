package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

func TestRegistryGetUnknownCorpus(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("docs")
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestRegistrySwapRegistersAndReplaces(t *testing.T) {
	r := NewRegistry()
	r.Swap("docs", NewIndex("docs", testFingerprint, testChunks()))
	r.Swap("tickets", NewIndex("tickets", testFingerprint, nil))

	assert.Equal(t, []string{"docs", "tickets"}, r.Names())

	// Replacing keeps registration order stable.
	r.Swap("docs", NewIndex("docs", testFingerprint, testChunks()[:1]))
	assert.Equal(t, []string{"docs", "tickets"}, r.Names())

	idx, err := r.Get("docs")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestLoadAllSkipsMissingArtifacts(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Build(ctx, "docs", testChunks(), testFingerprint)
	require.NoError(t, err)

	r, err := LoadAll(ctx, store, []string{"docs", "tickets", "configs"}, testFingerprint)
	require.NoError(t, err)

	// Only the built corpus registers; the others surface as
	// unavailable when routed to.
	assert.Equal(t, []string{"docs"}, r.Names())

	_, err = r.Get("tickets")
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestLoadAllAbortsOnFingerprintMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Build(ctx, "docs", testChunks(), testFingerprint)
	require.NoError(t, err)

	_, err = LoadAll(ctx, store, []string{"docs"}, "other-model:768")
	assert.ErrorIs(t, err, domain.ErrFingerprintMismatch)
}
