package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/department-assistant/internal/core/domain"
	"github.com/kirillkom/department-assistant/internal/infrastructure/vector/memory"
)

var testDepartments = NewDepartmentPolicy([]string{"IT", "HR", "Accounts", "Factory", "Marketing"})

func seedHR(t *testing.T) *memory.Registry {
	t.Helper()
	registry := memory.NewRegistry()
	_, err := registry.Append(context.Background(), "HR", []domain.ChunkInput{
		{Text: "Annual leave policy: employees get 20 days of leave", Source: domain.TrustedSource, OriginPath: "leave.txt", Embedding: []float32{1, 0}},
		{Text: "Sick leave requires a medical note", Source: domain.TrustedSource, OriginPath: "leave.txt", Embedding: []float32{0.9, 0.1}},
		{Text: "Parking rules for the factory lot", Source: domain.TrustedSource, OriginPath: "parking.txt", Embedding: []float32{0, 1}},
	})
	if err != nil {
		t.Fatalf("seed HR: %v", err)
	}
	return registry
}

func TestRetrieveLeavePolicyScenario(t *testing.T) {
	embedder := &embedderFake{query: []float32{1, 0}}
	uc := NewRetrievalUseCase(embedder, seedHR(t), testDepartments)

	limits := domain.DefaultRetrievalLimits()
	limits.LexicalK = 2
	limits.VectorK = 2
	limits.ContextN = 2

	result, err := uc.Retrieve(context.Background(), "HR", "leave policy", limits)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].ID != 0 || result.Chunks[1].ID != 1 {
		t.Fatalf("expected [0 1], got [%d %d]", result.Chunks[0].ID, result.Chunks[1].ID)
	}
	if embedder.lastQueried != "leave policy" {
		t.Fatalf("expected query embedding for %q, got %q", "leave policy", embedder.lastQueried)
	}
	if result.Context != result.Chunks[0].Text+"\n\n"+result.Chunks[1].Text {
		t.Fatalf("unexpected context block %q", result.Context)
	}
}

func TestRetrieveInvalidDepartmentSkipsEmbedding(t *testing.T) {
	embedder := &embedderFake{query: []float32{1, 0}}
	uc := NewRetrievalUseCase(embedder, seedHR(t), testDepartments)

	_, err := uc.Retrieve(context.Background(), "Legal", "leave policy", domain.DefaultRetrievalLimits())
	if !domain.IsKind(err, domain.ErrInvalidDepartment) {
		t.Fatalf("expected ErrInvalidDepartment, got %v", err)
	}
	if embedder.queryCalls != 0 {
		t.Fatalf("expected no embedding calls, got %d", embedder.queryCalls)
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	embedder := &embedderFake{}
	uc := NewRetrievalUseCase(embedder, seedHR(t), testDepartments)

	_, err := uc.Retrieve(context.Background(), "HR", "   ", domain.DefaultRetrievalLimits())
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if embedder.queryCalls != 0 {
		t.Fatalf("expected no embedding calls, got %d", embedder.queryCalls)
	}
}

func TestRetrieveEmbeddingFailureSurfaces(t *testing.T) {
	cause := errors.New("provider timeout")
	embedder := &embedderFake{err: cause}
	uc := NewRetrievalUseCase(embedder, seedHR(t), testDepartments)

	_, err := uc.Retrieve(context.Background(), "HR", "leave", domain.DefaultRetrievalLimits())
	if !domain.IsKind(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected provider cause in chain, got %v", err)
	}
	if embedder.queryCalls != 1 {
		t.Fatalf("expected exactly one embedding call, got %d", embedder.queryCalls)
	}
}

func TestRetrieveEmptyIndexIsNotAnError(t *testing.T) {
	uc := NewRetrievalUseCase(&embedderFake{query: []float32{1, 0}}, memory.NewRegistry(), testDepartments)

	result, err := uc.Retrieve(context.Background(), "IT", "vpn", domain.DefaultRetrievalLimits())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Chunks) != 0 || result.Context != "" {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRetrieveDropsUntrustedChunks(t *testing.T) {
	registry := memory.NewRegistry()
	_, err := registry.Append(context.Background(), "IT", []domain.ChunkInput{
		{Text: "vpn setup from a forum post", Source: "web", Embedding: []float32{1, 0}},
		{Text: "vpn setup guide", Source: domain.TrustedSource, Embedding: []float32{0.8, 0.2}},
	})
	if err != nil {
		t.Fatalf("seed IT: %v", err)
	}
	uc := NewRetrievalUseCase(&embedderFake{query: []float32{1, 0}}, registry, testDepartments)

	result, err := uc.Retrieve(context.Background(), "IT", "vpn setup", domain.DefaultRetrievalLimits())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Chunks) != 1 || result.Chunks[0].Source != domain.TrustedSource {
		t.Fatalf("expected only the trusted chunk, got %+v", result.Chunks)
	}
}

type searcherFake struct {
	lexicalErr error
}

func (f *searcherFake) Search(context.Context, string, []float32, int) (domain.RankedList, error) {
	return domain.RankedList{}, nil
}

func (f *searcherFake) SearchLexical(context.Context, string, string, int) (domain.RankedList, error) {
	return nil, f.lexicalErr
}

func TestRetrieveLexicalFailureSurfaces(t *testing.T) {
	cause := errors.New("index broken")
	uc := NewRetrievalUseCase(&embedderFake{query: []float32{1}}, &searcherFake{lexicalErr: cause}, testDepartments)

	_, err := uc.Retrieve(context.Background(), "HR", "leave", domain.DefaultRetrievalLimits())
	if !errors.Is(err, cause) {
		t.Fatalf("expected lexical error, got %v", err)
	}
}

func TestRetrieveWithEmbeddingSkipsProvider(t *testing.T) {
	embedder := &embedderFake{}
	uc := NewRetrievalUseCase(embedder, seedHR(t), testDepartments)

	result, err := uc.RetrieveWithEmbedding(context.Background(), "HR", "leave policy", []float32{1, 0}, domain.DefaultRetrievalLimits())
	if err != nil {
		t.Fatalf("RetrieveWithEmbedding() error = %v", err)
	}
	if embedder.queryCalls != 0 {
		t.Fatalf("expected no provider call, got %d", embedder.queryCalls)
	}
	if len(result.Chunks) == 0 || result.Chunks[0].ID != 0 {
		t.Fatalf("expected chunk 0 first, got %+v", result.Chunks)
	}
}
