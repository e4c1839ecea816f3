package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

type embedderFake struct {
	vector []float32
	err    error
	calls  int
}

func (f *embedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, f.err
}

func (f *embedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func setupCache(t *testing.T, next *embedderFake) (*miniredis.Miniredis, *CachedEmbedder) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewCachedEmbedder(next, client, "text-embedding-3-large", time.Minute, nil)
}

func TestEmbedQueryCachesVector(t *testing.T) {
	next := &embedderFake{vector: []float32{0.25, -1.5, 3}}
	_, cache := setupCache(t, next)

	for i := 0; i < 3; i++ {
		vector, err := cache.EmbedQuery(context.Background(), "leave policy")
		if err != nil {
			t.Fatalf("EmbedQuery() error = %v", err)
		}
		if len(vector) != 3 || vector[1] != -1.5 {
			t.Fatalf("unexpected vector %v", vector)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one provider call, got %d", next.calls)
	}
}

func TestEmbedQueryRespectsTTL(t *testing.T) {
	next := &embedderFake{vector: []float32{1}}
	mr, cache := setupCache(t, next)

	_, _ = cache.EmbedQuery(context.Background(), "q")
	mr.FastForward(2 * time.Minute)
	_, _ = cache.EmbedQuery(context.Background(), "q")
	if next.calls != 2 {
		t.Fatalf("expected expiry to force a second call, got %d", next.calls)
	}
}

func TestEmbedQueryProviderErrorUnchanged(t *testing.T) {
	cause := errors.New("quota exceeded")
	next := &embedderFake{err: cause}
	mr, cache := setupCache(t, next)

	_, err := cache.EmbedQuery(context.Background(), "q")
	if !errors.Is(err, cause) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("failed embeddings must not be cached: %v", mr.Keys())
	}
}

func TestEmbedQueryFallsThroughWhenRedisDown(t *testing.T) {
	next := &embedderFake{vector: []float32{1, 2}}
	mr, cache := setupCache(t, next)
	mr.Close()

	vector, err := cache.EmbedQuery(context.Background(), "q")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 2 {
		t.Fatalf("unexpected vector %v", vector)
	}
}

func TestEmbedQueryIgnoresCorruptEntry(t *testing.T) {
	next := &embedderFake{vector: []float32{7}}
	mr, cache := setupCache(t, next)
	if err := mr.Set(cache.key("q"), "abc"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	vector, err := cache.EmbedQuery(context.Background(), "q")
	if err != nil || len(vector) != 1 || vector[0] != 7 {
		t.Fatalf("expected provider vector, got %v err=%v", vector, err)
	}
}

func TestEmbedBypassesCache(t *testing.T) {
	next := &embedderFake{vector: []float32{1}}
	mr, cache := setupCache(t, next)

	vectors, err := cache.Embed(context.Background(), []string{"a", "b"})
	if err != nil || len(vectors) != 2 {
		t.Fatalf("unexpected result %v err=%v", vectors, err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("chunk embeddings must not be cached")
	}
}
