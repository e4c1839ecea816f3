package natsrpc

import "github.com/kirillkom/department-assistant/internal/core/domain"

const (
	codeInvalidInput         = "invalid_input"
	codeInvalidDepartment    = "invalid_department"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeRateLimited          = "rate_limited"
	codeInternal             = "internal"
)

func mapErrorToCode(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return codeInvalidInput
	case domain.IsKind(err, domain.ErrInvalidDepartment):
		return codeInvalidDepartment
	case domain.IsKind(err, domain.ErrEmbeddingProvider):
		return codeEmbeddingUnavailable
	case domain.IsKind(err, domain.ErrRateLimited):
		return codeRateLimited
	default:
		return codeInternal
	}
}
