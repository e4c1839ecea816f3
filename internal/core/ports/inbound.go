package ports

import (
	"context"
	"io"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, department, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor turns an uploaded document into indexed chunks.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// Retriever is the inbound contract for department-scoped hybrid retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, department, query string, limits domain.RetrievalLimits) (*domain.RetrievalResult, error)
}
