// Package similarity holds the dense-vector measures shared by vector search
// and diversity selection.
package similarity

import "math"

// Cosine returns the cosine similarity of a and b in [-1, 1].
// It is 0 when either vector has zero magnitude or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	// rounding can push parallel vectors slightly past the bounds
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
