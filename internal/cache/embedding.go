package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	keyPrefix  = "askdocs:emb:"
	DefaultTTL = 24 * time.Hour
)

// Embedder is the wrapped embedding source.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// kv is the subset of *redis.Client used by the cache.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// EmbeddingCache memoizes embeddings in Redis, keyed by model, vector size
// and text.
// Redis errors are logged and fall through to the wrapped embedder.
type EmbeddingCache struct {
	next       Embedder
	kv         kv
	model      string
	dimensions int
	ttl        time.Duration
}

func NewEmbeddingCache(next Embedder, client *redis.Client, model string, dimensions int, ttl time.Duration) *EmbeddingCache {
	return newEmbeddingCache(next, client, model, dimensions, ttl)
}

func newEmbeddingCache(next Embedder, store kv, model string, dimensions int, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingCache{next: next, kv: store, model: model, dimensions: dimensions, ttl: ttl}
}

func (c *EmbeddingCache) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)

	raw, err := c.kv.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		vec, decErr := decodeVector(raw)
		if decErr == nil {
			return vec, nil
		}
		log.Ctx(ctx).Warn().Err(decErr).Str("key", key).Msg("discarding corrupt cached embedding")
	case errors.Is(err, redis.Nil):
	default:
		log.Ctx(ctx).Warn().Err(err).Msg("embedding cache lookup failed")
	}

	vec, err := c.next.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.kv.Set(ctx, key, encodeVector(vec), c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("embedding cache write failed")
	}
	return vec, nil
}

func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", c.model, c.dimensions, text)))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid cached vector length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
