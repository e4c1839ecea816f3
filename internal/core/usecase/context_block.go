package usecase

import (
	"strings"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// BuildContext joins chunk texts into the block handed to answer generation.
func BuildContext(chunks []domain.Chunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n\n")
}
