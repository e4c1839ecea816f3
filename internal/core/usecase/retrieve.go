package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/core/ports"
)

// RetrievalUseCase runs the hybrid pipeline for one department:
// lexical and vector search in parallel, RRF, MMR, provenance filter, rerank.
type RetrievalUseCase struct {
	embedder    ports.Embedder
	searcher    ports.ChunkSearcher
	departments *DepartmentPolicy
}

func NewRetrievalUseCase(
	embedder ports.Embedder,
	searcher ports.ChunkSearcher,
	departments *DepartmentPolicy,
) *RetrievalUseCase {
	return &RetrievalUseCase{
		embedder:    embedder,
		searcher:    searcher,
		departments: departments,
	}
}

// Retrieve embeds the query and returns at most limits.ContextN chunks.
// The department is validated before any search or embedding work.
func (uc *RetrievalUseCase) Retrieve(
	ctx context.Context,
	department, query string,
	limits domain.RetrievalLimits,
) (*domain.RetrievalResult, error) {
	if err := uc.validate(department, query); err != nil {
		return nil, err
	}
	return uc.run(ctx, department, query, limits, func(ctx context.Context) ([]float32, error) {
		vector, err := uc.embedder.EmbedQuery(ctx, query)
		if err != nil {
			return nil, domain.WrapError(domain.ErrEmbeddingProvider, "embed query", err)
		}
		return vector, nil
	})
}

// RetrieveWithEmbedding is Retrieve for callers that already hold the query embedding.
func (uc *RetrievalUseCase) RetrieveWithEmbedding(
	ctx context.Context,
	department, query string,
	queryVector []float32,
	limits domain.RetrievalLimits,
) (*domain.RetrievalResult, error) {
	if err := uc.validate(department, query); err != nil {
		return nil, err
	}
	return uc.run(ctx, department, query, limits, func(context.Context) ([]float32, error) {
		return queryVector, nil
	})
}

func (uc *RetrievalUseCase) validate(department, query string) error {
	if err := uc.departments.CheckDepartment(department); err != nil {
		return err
	}
	if strings.TrimSpace(query) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "retrieve", errors.New("query is required"))
	}
	return nil
}

func (uc *RetrievalUseCase) run(
	ctx context.Context,
	department, query string,
	limits domain.RetrievalLimits,
	queryVectorFn func(context.Context) ([]float32, error),
) (*domain.RetrievalResult, error) {
	limits = limits.Normalize()

	var (
		lexical     domain.RankedList
		semantic    domain.RankedList
		queryVector []float32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := uc.searcher.SearchLexical(gctx, department, query, limits.LexicalK)
		if err != nil {
			return fmt.Errorf("lexical search: %w", err)
		}
		lexical = res
		return nil
	})
	g.Go(func() error {
		vector, err := queryVectorFn(gctx)
		if err != nil {
			return err
		}
		res, err := uc.searcher.Search(gctx, department, vector, limits.VectorK)
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		queryVector = vector
		semantic = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := fuseCandidatesRRF(lexical, semantic, limits.RRFK)
	diverse := selectMMR(queryVector, fused, limits.MMRLambda, limits.MMRTopK)
	trusted := filterTrusted(diverse)
	reranked := rerankByOverlap(query, trusted)
	final := trimChunks(reranked, limits.ContextN)

	return &domain.RetrievalResult{
		Department: department,
		Query:      query,
		Chunks:     final,
		Context:    BuildContext(final),
	}, nil
}
