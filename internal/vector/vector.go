// Package vector provides the similarity primitives shared by corpus
// indexes, chat memory, and the routing scorer. All stores normalise
// vectors on insert so similarity reduces to a dot product and scores
// stay comparable across corpora.
package vector

import "math"

// Dot returns the dot product of a and b. Returns 0 when lengths differ.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	out := make([]float32, len(v))
	if n == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = float32(float64(x) / n)
	}
	return out
}

// Cosine returns the cosine similarity of a and b, clamped to [0, 1].
// Negative similarities are clamped to zero so downstream scores line
// up with the router's [0,1] confidence floor.
func Cosine(a, b []float32) float64 {
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	sim := Dot(a, b) / (na * nb)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Centroid returns the mean of the vectors. Nil for empty input or
// mismatched dimensions.
func Centroid(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	dims := len(vecs[0])
	sum := make([]float64, dims)
	for _, v := range vecs {
		if len(v) != dims {
			return nil
		}
		for i, x := range v {
			sum[i] += float64(x)
		}
	}
	out := make([]float32, dims)
	for i, x := range sum {
		out[i] = float32(x / float64(len(vecs)))
	}
	return out
}
