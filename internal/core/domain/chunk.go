package domain

// TrustedSource marks chunks that come from company-owned documents.
const TrustedSource = "company"

// Chunk is an immutable slice of ingested text owned by one department index.
type Chunk struct {
	ID         int       `json:"id"`
	Text       string    `json:"text"`
	Department string    `json:"department"`
	Source     string    `json:"source"`
	OriginPath string    `json:"origin_path"`
	Embedding  []float32 `json:"-"`
}

// ChunkInput is what ingestion hands to the index; ids are assigned on append.
type ChunkInput struct {
	Text       string
	Source     string
	OriginPath string
	Embedding  []float32
}

// ScoredChunk annotates a chunk with a stage-specific score.
// Scores from different stages are not comparable.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RankedList is ordered by descending score and never repeats a chunk id.
type RankedList []ScoredChunk

// Chunks drops the scores and keeps the order.
func (l RankedList) Chunks() []Chunk {
	out := make([]Chunk, 0, len(l))
	for _, sc := range l {
		out = append(out, sc.Chunk)
	}
	return out
}
