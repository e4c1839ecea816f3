package usecase

import (
	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/similarity"
)

// selectMMR greedily picks up to topK candidates balancing relevance to the
// query against similarity to what is already selected:
//
//	lambda*cos(q, c) - (1-lambda)*max_s cos(c, s)
//
// Ties go to the earliest candidate in the input ranking.
func selectMMR(queryVector []float32, candidates domain.RankedList, lambda float64, topK int) []domain.Chunk {
	if len(candidates) == 0 || topK <= 0 {
		return []domain.Chunk{}
	}
	limit := topK
	if limit > len(candidates) {
		limit = len(candidates)
	}

	relevance := make([]float64, len(candidates))
	for i, c := range candidates {
		relevance[i] = similarity.Cosine(queryVector, c.Chunk.Embedding)
	}
	// maxSim[i] is the highest similarity of candidate i to any selected chunk.
	maxSim := make([]float64, len(candidates))
	taken := make([]bool, len(candidates))

	selected := make([]domain.Chunk, 0, limit)
	for len(selected) < limit {
		best := -1
		var bestScore float64
		for i := range candidates {
			if taken[i] {
				continue
			}
			penalty := 0.0
			if len(selected) > 0 {
				penalty = maxSim[i]
			}
			score := lambda*relevance[i] - (1-lambda)*penalty
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			break
		}

		taken[best] = true
		picked := candidates[best].Chunk
		selected = append(selected, picked)

		first := len(selected) == 1
		for i := range candidates {
			if taken[i] {
				continue
			}
			sim := similarity.Cosine(candidates[i].Chunk.Embedding, picked.Embedding)
			if first || sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}
	return selected
}
