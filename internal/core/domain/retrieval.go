package domain

type RetrievalLimits struct {
	LexicalK  int     `json:"lexical_k" yaml:"lexical_k"`
	VectorK   int     `json:"vector_k" yaml:"vector_k"`
	RRFK      float64 `json:"rrf_k" yaml:"rrf_k"`
	MMRLambda float64 `json:"mmr_lambda" yaml:"mmr_lambda"`
	MMRTopK   int     `json:"mmr_top_k" yaml:"mmr_top_k"`
	ContextN  int     `json:"context_n" yaml:"context_n"`
}

func DefaultRetrievalLimits() RetrievalLimits {
	return RetrievalLimits{
		LexicalK:  20,
		VectorK:   20,
		RRFK:      60,
		MMRLambda: 0.7,
		MMRTopK:   8,
		ContextN:  6,
	}
}

// Normalize replaces non-positive sizes and an out-of-range lambda with defaults.
// A lambda of exactly 0 is valid and kept.
func (l RetrievalLimits) Normalize() RetrievalLimits {
	out := l
	def := DefaultRetrievalLimits()

	if out.LexicalK <= 0 {
		out.LexicalK = def.LexicalK
	}
	if out.VectorK <= 0 {
		out.VectorK = def.VectorK
	}
	if out.RRFK <= 0 {
		out.RRFK = def.RRFK
	}
	if out.MMRLambda < 0 || out.MMRLambda > 1 {
		out.MMRLambda = def.MMRLambda
	}
	if out.MMRTopK <= 0 {
		out.MMRTopK = def.MMRTopK
	}
	if out.ContextN <= 0 {
		out.ContextN = def.ContextN
	}
	return out
}

type RetrievalResult struct {
	Department string  `json:"department"`
	Query      string  `json:"query"`
	Chunks     []Chunk `json:"chunks"`
	Context    string  `json:"context"`
}

// Interaction is one served retrieval request, kept for auditing.
type Interaction struct {
	ID         string  `json:"id"`
	RequestID  string  `json:"request_id"`
	User       string  `json:"user,omitempty"`
	Department string  `json:"department"`
	Query      string  `json:"query"`
	ChunkIDs   []int   `json:"chunk_ids"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}
