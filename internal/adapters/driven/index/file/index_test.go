package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camber-labs/ragdesk/internal/core/domain"
)

func TestSearchOrdersByDescendingSimilarity(t *testing.T) {
	idx := NewIndex("docs", testFingerprint, []domain.Chunk{
		{ID: "far", Embedding: []float32{0, 1, 0, 0}},
		{ID: "near", Embedding: []float32{1, 0, 0, 0}},
		{ID: "mid", Embedding: []float32{0.7, 0.7, 0, 0}},
	})

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "near", hits[0].Chunk.ID)
	assert.Equal(t, "mid", hits[1].Chunk.ID)
	assert.Equal(t, "far", hits[2].Chunk.ID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	assert.GreaterOrEqual(t, hits[1].Score, hits[2].Score)
}

func TestSearchClampsK(t *testing.T) {
	idx := NewIndex("docs", testFingerprint, testChunks())

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 3)

	hits, err = idx.Search(context.Background(), []float32{1, 0, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchTieBreaksByChunkID(t *testing.T) {
	idx := NewIndex("docs", testFingerprint, []domain.Chunk{
		{ID: "b", Embedding: []float32{1, 0, 0, 0}},
		{ID: "a", Embedding: []float32{1, 0, 0, 0}},
	})

	hits, err := idx.Search(context.Background(), []float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "b", hits[1].Chunk.ID)
}

func TestSearchHonoursContextCancellation(t *testing.T) {
	idx := NewIndex("docs", testFingerprint, testChunks())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := idx.Search(ctx, []float32{1, 0, 0, 0}, 1)
	assert.Error(t, err)
}

func TestCentroid(t *testing.T) {
	idx := NewIndex("docs", testFingerprint, []domain.Chunk{
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "b", Embedding: []float32{0, 1}},
	})
	assert.Equal(t, []float32{0.5, 0.5}, idx.Centroid())

	empty := NewIndex("docs", testFingerprint, nil)
	assert.Nil(t, empty.Centroid())
	assert.Zero(t, empty.Len())
}
