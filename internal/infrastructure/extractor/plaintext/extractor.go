package plaintext

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/ports"
)

// Extractor reads stored documents as UTF-8 text. Invalid byte sequences are
// dropped rather than rejected.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document %s: %w", doc.Filename, err)
	}

	text := strings.ToValidUTF8(string(raw), "")
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
