// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/department-assistant/internal/infrastructure/resilience"
)

type Embedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewEmbedder(baseURL, model string, executor *resilience.Executor) *Embedder {
	return &Embedder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	call := func(ctx context.Context) ([][]float32, error) {
		var response embedResponse
		if err := e.postJSON(ctx, "/api/embed", embedRequest{Model: e.model, Input: texts}, &response, "embed"); err != nil {
			return nil, err
		}
		return response.Embeddings, nil
	}

	var (
		vectors [][]float32
		err     error
	)
	if e.executor != nil {
		vectors, err = resilience.Call(ctx, e.executor, "ollama.embed", call, resilience.ClassifyTransportError)
	} else {
		vectors, err = call(ctx)
	}
	if err != nil {
		return nil, resilience.MarkTemporary("ollama embed", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return vectors[0], nil
}
