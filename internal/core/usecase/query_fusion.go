package usecase

import (
	"sort"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

const defaultRRFK = 60

type fusedCandidate struct {
	chunk domain.Chunk
	score float64
	order int
}

// fuseCandidatesRRF merges two ranked lists with Reciprocal Rank Fusion.
// Every chunk contributes 1/(k+rank) per list it appears in (rank is 1-based).
// Ties keep first-appearance order: list a, then the new entries of list b.
func fuseCandidatesRRF(a, b domain.RankedList, rrfK float64) domain.RankedList {
	if rrfK <= 0 {
		rrfK = defaultRRFK
	}

	acc := make(map[int]*fusedCandidate, len(a)+len(b))
	addList := func(list domain.RankedList) {
		for rank, sc := range list {
			candidate, ok := acc[sc.Chunk.ID]
			if !ok {
				candidate = &fusedCandidate{chunk: sc.Chunk, order: len(acc)}
				acc[sc.Chunk.ID] = candidate
			}
			candidate.score += 1.0 / (rrfK + float64(rank+1))
		}
	}

	addList(a)
	addList(b)

	fused := make([]*fusedCandidate, 0, len(acc))
	for _, c := range acc {
		fused = append(fused, c)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].order < fused[j].order
	})

	out := make(domain.RankedList, 0, len(fused))
	for _, c := range fused {
		out = append(out, domain.ScoredChunk{Chunk: c.chunk, Score: c.score})
	}
	return out
}

func trimChunks(chunks []domain.Chunk, limit int) []domain.Chunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}
