// Package redis caches query embeddings in Redis.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/department-assistant/internal/core/ports"
)

const keyPrefix = "emb"

// CachedEmbedder serves repeated query embeddings from Redis. Chunk batches
// go straight to the wrapped provider. Cache failures are logged and never
// surfaced; provider errors are returned unchanged.
type CachedEmbedder struct {
	next   ports.Embedder
	client *goredis.Client
	model  string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedEmbedder(next ports.Embedder, client *goredis.Client, model string, ttl time.Duration, logger *slog.Logger) *CachedEmbedder {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedEmbedder{
		next:   next,
		client: client,
		model:  model,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return c.next.Embed(ctx, texts)
}

func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		vector, decodeErr := decodeVector(raw)
		if decodeErr == nil {
			return vector, nil
		}
		c.logger.Warn("embedding_cache_corrupt", "key", key, "error", decodeErr)
	case !errors.Is(err, goredis.Nil):
		c.logger.Warn("embedding_cache_get_failed", "error", err)
	}

	vector, err := c.next.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, encodeVector(vector), c.ttl).Err(); err != nil {
		c.logger.Warn("embedding_cache_set_failed", "error", err)
	}
	return vector, nil
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:%s:%s", keyPrefix, c.model, hex.EncodeToString(sum[:]))
}

func encodeVector(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(x))
	}
	return out
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("invalid vector payload of %d bytes", len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return out, nil
}
