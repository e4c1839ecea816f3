// Package memory is the in-process chunk store: one DocumentIndex per
// department, each with dense embeddings and a TF-IDF lexical model.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kirillkom/department-assistant/internal/core/domain"
)

// Registry owns the per-department indexes. Departments are independent
// shards; the registry lock only guards the map itself.
type Registry struct {
	mu      sync.RWMutex
	indexes map[string]*DocumentIndex
}

func NewRegistry() *Registry {
	return &Registry{indexes: make(map[string]*DocumentIndex)}
}

// Reset drops every department index.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.indexes = make(map[string]*DocumentIndex)
	r.mu.Unlock()
}

func (r *Registry) lookup(department string) (*DocumentIndex, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexes[department]
	return idx, ok
}

func (r *Registry) index(department string) *DocumentIndex {
	if idx, ok := r.lookup(department); ok {
		return idx
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.indexes[department]; ok {
		return idx
	}
	idx := newDocumentIndex(department)
	r.indexes[department] = idx
	return idx
}

func (r *Registry) Append(ctx context.Context, department string, chunks []domain.ChunkInput) (int, error) {
	if len(chunks) == 0 {
		return 0, domain.ErrEmptyBatch
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.index(department).Append(chunks)
}

// Chunks returns the department's chunk sequence; callers must not modify it.
func (r *Registry) Chunks(department string) []domain.Chunk {
	return r.Snapshot(department).Chunks
}

func (r *Registry) LexicalModel(department string) (*LexicalModel, bool) {
	model := r.Snapshot(department).Model
	return model, model != nil
}

// Snapshot returns a consistent chunks/model pair. Unknown departments yield
// an empty snapshot.
func (r *Registry) Snapshot(department string) *Snapshot {
	idx, ok := r.lookup(department)
	if !ok {
		return &Snapshot{}
	}
	return idx.Snapshot()
}

// Sizes reports the chunk count per known department.
func (r *Registry) Sizes() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.indexes))
	for dept, idx := range r.indexes {
		out[dept] = idx.Len()
	}
	return out
}

func (r *Registry) Departments() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.indexes))
	for dept := range r.indexes {
		out = append(out, dept)
	}
	sort.Strings(out)
	return out
}
