package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	assert.InDelta(t, 11.0, Dot([]float32{1, 2}, []float32{3, 4}), 1e-9)
	assert.Zero(t, Dot([]float32{1}, []float32{1, 2}))
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	assert.InDelta(t, 1.0, Norm(v), 1e-6)

	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)

	// Opposing vectors clamp to zero rather than going negative.
	assert.Zero(t, Cosine([]float32{1, 0}, []float32{-1, 0}))

	// Zero vectors score zero.
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 0}))
}

func TestCentroid(t *testing.T) {
	c := Centroid([][]float32{{1, 0}, {3, 2}})
	require.Len(t, c, 2)
	assert.InDelta(t, 2.0, float64(c[0]), 1e-6)
	assert.InDelta(t, 1.0, float64(c[1]), 1e-6)

	assert.Nil(t, Centroid(nil))
	assert.Nil(t, Centroid([][]float32{{1}, {1, 2}}))
}
