package natsrpc

import "github.com/kirillkom/department-assistant/internal/core/domain"

// RetrievalRequest is the JSON body sent on the retrieval subject.
type RetrievalRequest struct {
	RequestID  string          `json:"request_id,omitempty"`
	User       string          `json:"user,omitempty"`
	Department string          `json:"department"`
	Query      string          `json:"query"`
	Limits     *LimitsOverride `json:"limits,omitempty"`
}

// LimitsOverride carries per-request limits. Unset fields keep the
// configured defaults, so an explicit mmr_lambda of 0 is honored.
type LimitsOverride struct {
	LexicalK  *int     `json:"lexical_k,omitempty"`
	VectorK   *int     `json:"vector_k,omitempty"`
	RRFK      *float64 `json:"rrf_k,omitempty"`
	MMRLambda *float64 `json:"mmr_lambda,omitempty"`
	MMRTopK   *int     `json:"mmr_top_k,omitempty"`
	ContextN  *int     `json:"context_n,omitempty"`
}

func (o *LimitsOverride) apply(base domain.RetrievalLimits) domain.RetrievalLimits {
	if o == nil {
		return base
	}
	out := base
	if o.LexicalK != nil {
		out.LexicalK = *o.LexicalK
	}
	if o.VectorK != nil {
		out.VectorK = *o.VectorK
	}
	if o.RRFK != nil {
		out.RRFK = *o.RRFK
	}
	if o.MMRLambda != nil {
		out.MMRLambda = *o.MMRLambda
	}
	if o.MMRTopK != nil {
		out.MMRTopK = *o.MMRTopK
	}
	if o.ContextN != nil {
		out.ContextN = *o.ContextN
	}
	return out
}

type ChunkView struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Source     string `json:"source"`
	OriginPath string `json:"origin_path"`
}

// RetrievalResponse is the JSON reply. Error and ErrorCode are set together.
type RetrievalResponse struct {
	RequestID  string      `json:"request_id"`
	Department string      `json:"department"`
	Chunks     []ChunkView `json:"chunks"`
	Context    string      `json:"context"`
	Error      string      `json:"error,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
}
