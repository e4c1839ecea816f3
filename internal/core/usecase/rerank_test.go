package usecase

import (
	"strings"
	"testing"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func TestRerankByOverlapChangesOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: 0, Text: "unrelated text"},
		{ID: 1, Text: "Leave Policy: 20 days"},
	}

	reranked := rerankByOverlap("leave policy", chunks)
	if len(reranked) != 2 {
		t.Fatalf("expected 2 reranked chunks, got %d", len(reranked))
	}
	if reranked[0].ID != 1 {
		t.Fatalf("expected chunk 1 first after rerank, got %d", reranked[0].ID)
	}
}

func TestRerankByOverlapStableOnTies(t *testing.T) {
	chunks := []domain.Chunk{{ID: 3, Text: "abc"}, {ID: 1, Text: "xyz"}, {ID: 2, Text: "qrs"}}

	reranked := rerankByOverlap("nothing", chunks)
	for i, want := range []int{3, 1, 2} {
		if reranked[i].ID != want {
			t.Fatalf("expected input order on ties, got %+v", reranked)
		}
	}
}

func TestRerankByOverlapCountsDistinctTokens(t *testing.T) {
	// "leave leave" counts once, so the longer text wins on its length bonus.
	short := domain.Chunk{ID: 0, Text: "leave"}
	long := domain.Chunk{ID: 1, Text: "leave " + strings.Repeat("x", 1000)}

	reranked := rerankByOverlap("leave leave", []domain.Chunk{short, long})
	if reranked[0].ID != 1 {
		t.Fatalf("expected longer chunk first, got %+v", reranked[0])
	}
}

func TestOverlapScoreLengthBonusCapped(t *testing.T) {
	score := overlapScore(nil, strings.Repeat("a", 12000))
	if score != 1 {
		t.Fatalf("expected capped bonus 1, got %v", score)
	}
}

func TestRerankByOverlapHandlesEmptyInput(t *testing.T) {
	if out := rerankByOverlap("risk", nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}

func TestBuildContextJoinsWithBlankLine(t *testing.T) {
	got := BuildContext([]domain.Chunk{{Text: "a"}, {Text: "b"}})
	if got != "a\n\nb" {
		t.Fatalf("unexpected context %q", got)
	}
	if BuildContext(nil) != "" {
		t.Fatalf("expected empty context")
	}
}
