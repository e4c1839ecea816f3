package usecase

import "github.com/kirillkom/department-assistant/internal/core/domain"

// filterTrusted keeps only company-owned chunks, preserving order.
func filterTrusted(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Source == domain.TrustedSource {
			out = append(out, c)
		}
	}
	return out
}
