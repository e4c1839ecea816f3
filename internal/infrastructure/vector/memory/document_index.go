package memory

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// Snapshot is an immutable view of one department: the chunk sequence and
// the lexical model fitted on exactly that sequence.
type Snapshot struct {
	Chunks    []domain.Chunk
	Model     *LexicalModel
	Dimension int
}

// DocumentIndex is the append-only chunk collection of one department.
// Readers load the current snapshot without locking; writers build the next
// snapshot off to the side and publish it with a single pointer swap.
type DocumentIndex struct {
	department string

	writeMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

func newDocumentIndex(department string) *DocumentIndex {
	idx := &DocumentIndex{department: department}
	idx.current.Store(&Snapshot{})
	return idx
}

func (ix *DocumentIndex) Snapshot() *Snapshot {
	return ix.current.Load()
}

func (ix *DocumentIndex) Len() int {
	return len(ix.current.Load().Chunks)
}

// Append assigns sequential ids starting at the current size and refits the
// lexical model over the whole updated chunk set.
func (ix *DocumentIndex) Append(inputs []domain.ChunkInput) (int, error) {
	if len(inputs) == 0 {
		return 0, domain.ErrEmptyBatch
	}

	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	prev := ix.current.Load()
	dim := prev.Dimension
	if len(prev.Chunks) == 0 {
		dim = len(inputs[0].Embedding)
	}
	for i, in := range inputs {
		if len(in.Embedding) != dim {
			return 0, domain.WrapError(
				domain.ErrInvalidInput,
				"append chunks",
				fmt.Errorf("chunk %d embedding dimension %d, department %s expects %d", i, len(in.Embedding), ix.department, dim),
			)
		}
	}

	chunks := make([]domain.Chunk, 0, len(prev.Chunks)+len(inputs))
	chunks = append(chunks, prev.Chunks...)
	start := len(prev.Chunks)
	for offset, in := range inputs {
		embedding := make([]float32, len(in.Embedding))
		copy(embedding, in.Embedding)
		chunks = append(chunks, domain.Chunk{
			ID:         start + offset,
			Text:       in.Text,
			Department: ix.department,
			Source:     in.Source,
			OriginPath: in.OriginPath,
			Embedding:  embedding,
		})
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	ix.current.Store(&Snapshot{
		Chunks:    chunks,
		Model:     fitLexicalModel(texts),
		Dimension: dim,
	})
	return len(inputs), nil
}
