package memory

import (
	"context"
	"testing"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

func TestSearchLexicalRanksMatchingChunks(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()
	_, _ = reg.Append(ctx, "HR", []domain.ChunkInput{
		chunkInput("quarterly payroll schedule", 1, 0),
		chunkInput("annual leave policy for employees", 0, 1),
		chunkInput("sick leave request", 1, 1),
	})

	res, err := reg.SearchLexical(ctx, "HR", "leave policy", 2)
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 results, got %d", len(res))
	}
	if res[0].Chunk.ID != 1 || res[1].Chunk.ID != 2 {
		t.Fatalf("unexpected order: %d, %d", res[0].Chunk.ID, res[1].Chunk.ID)
	}
	if res[0].Score < res[1].Score {
		t.Fatalf("scores must be descending")
	}
}

func TestSearchLexicalTiesByID(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()
	_, _ = reg.Append(ctx, "HR", []domain.ChunkInput{
		chunkInput("alpha", 1), chunkInput("beta", 1), chunkInput("gamma", 1),
	})

	res, err := reg.SearchLexical(ctx, "HR", "unrelated", 3)
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	for i, sc := range res {
		if sc.Chunk.ID != i {
			t.Fatalf("expected id order on ties, got %d at %d", sc.Chunk.ID, i)
		}
	}
}

func TestSearchVectorOrdersByCosine(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()
	_, _ = reg.Append(ctx, "IT", []domain.ChunkInput{
		chunkInput("a", 0, 1),
		chunkInput("b", 1, 0),
		chunkInput("c", 1, 1),
		chunkInput("d", 0, 0),
	})

	res, err := reg.Search(ctx, "IT", []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("expected 3 results, got %d", len(res))
	}
	if res[0].Chunk.ID != 1 || res[1].Chunk.ID != 2 {
		t.Fatalf("unexpected order %d,%d", res[0].Chunk.ID, res[1].Chunk.ID)
	}
	// a and d both score 0; the lower id wins the last slot
	if res[2].Chunk.ID != 0 || res[2].Score != 0 {
		t.Fatalf("expected chunk 0 with score 0 last, got %d (%f)", res[2].Chunk.ID, res[2].Score)
	}
}

func TestSearchHonorsCanceledContext(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := reg.Search(ctx, "IT", []float32{1}, 1); err == nil {
		t.Fatalf("expected context error")
	}
}
