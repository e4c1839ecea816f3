package memory

import (
	"context"
	"sort"

	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/similarity"
)

// SearchLexical scores every chunk against the TF-IDF query vector.
// A department without a fitted model yields an empty list.
func (r *Registry) SearchLexical(ctx context.Context, department, queryText string, limit int) (domain.RankedList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := r.Snapshot(department)
	if snap.Model == nil || len(snap.Chunks) == 0 || limit <= 0 {
		return domain.RankedList{}, nil
	}

	query := snap.Model.transform(queryText)
	scored := make(domain.RankedList, 0, len(snap.Chunks))
	for i, chunk := range snap.Chunks {
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: snap.Model.score(i, query),
		})
	}
	return topK(scored, limit), nil
}

// Search ranks chunks by cosine similarity to queryVector.
func (r *Registry) Search(ctx context.Context, department string, queryVector []float32, limit int) (domain.RankedList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := r.Snapshot(department)
	if len(snap.Chunks) == 0 || limit <= 0 {
		return domain.RankedList{}, nil
	}

	scored := make(domain.RankedList, 0, len(snap.Chunks))
	for _, chunk := range snap.Chunks {
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: similarity.Cosine(queryVector, chunk.Embedding),
		})
	}
	return topK(scored, limit), nil
}

func topK(scored domain.RankedList, k int) domain.RankedList {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.ID < scored[j].Chunk.ID
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
