package ports

import (
	"context"
	"io"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// DocumentRepository persists and reads uploaded document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveChunkCount(ctx context.Context, id string, count int) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// Chunker splits text into fixed-size chunks.
type Chunker interface {
	Split(text string) []string
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ChunkIndex is the append-only per-department chunk store.
type ChunkIndex interface {
	Append(ctx context.Context, department string, chunks []domain.ChunkInput) (int, error)
	Chunks(department string) []domain.Chunk
}

// ChunkSearcher ranks indexed chunks of one department.
type ChunkSearcher interface {
	Search(ctx context.Context, department string, queryVector []float32, limit int) (domain.RankedList, error)
	SearchLexical(ctx context.Context, department, queryText string, limit int) (domain.RankedList, error)
}

// InteractionLog keeps an audit trail of served retrieval requests.
type InteractionLog interface {
	RecordInteraction(ctx context.Context, interaction domain.Interaction) error
}
