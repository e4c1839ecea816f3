package usecase

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

const informativeTextRunes = 5000.0

// rerankByOverlap orders chunks by the number of distinct query tokens that
// occur as substrings of the chunk text plus a length bonus capped at 1.
// Equal scores keep their input order.
func rerankByOverlap(query string, chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) == 0 {
		return []domain.Chunk{}
	}

	tokens := distinctLowerTokens(query)
	type scored struct {
		chunk domain.Chunk
		score float64
	}
	items := make([]scored, len(chunks))
	for i, c := range chunks {
		items[i] = scored{chunk: c, score: overlapScore(tokens, c.Text)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]domain.Chunk, len(items))
	for i, it := range items {
		out[i] = it.chunk
	}
	return out
}

func overlapScore(tokens []string, text string) float64 {
	lower := strings.ToLower(text)
	matches := 0
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			matches++
		}
	}
	bonus := float64(utf8.RuneCountInString(lower)) / informativeTextRunes
	if bonus > 1 {
		bonus = 1
	}
	return float64(matches) + bonus
}

func distinctLowerTokens(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
