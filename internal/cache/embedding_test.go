package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// fakeKV is a map-backed stand-in for redis.
type fakeKV struct {
	data   map[string][]byte
	getErr error
	setErr error
	ttls   map[string]time.Duration
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.([]byte)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestEmbeddingCache_MissThenHit(t *testing.T) {
	next := new(MockEmbedder)
	store := newFakeKV()
	c := newEmbeddingCache(next, store, "text-embedding-3-small", 3, time.Hour)

	next.On("GenerateEmbedding", mock.Anything, "hello").Return([]float32{0.5, -1.25, 3}, nil).Once()

	first, err := c.GenerateEmbedding(context.Background(), "hello")
	require.NoError(t, err)
	second, err := c.GenerateEmbedding(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, -1.25, 3}, first)
	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "GenerateEmbedding", 1)

	for _, ttl := range store.ttls {
		assert.Equal(t, time.Hour, ttl)
	}
}

func TestEmbeddingCache_KeyIncludesModel(t *testing.T) {
	a := newEmbeddingCache(nil, nil, "model-a", 384, 0)
	b := newEmbeddingCache(nil, nil, "model-b", 384, 0)

	assert.NotEqual(t, a.key("text"), b.key("text"))
	assert.Equal(t, a.key("text"), a.key("text"))
	assert.Contains(t, a.key("text"), keyPrefix)
	assert.Equal(t, DefaultTTL, a.ttl)
}

func TestEmbeddingCache_ResizedCollectionMisses(t *testing.T) {
	store := newFakeKV()
	small := new(MockEmbedder)
	small.On("GenerateEmbedding", mock.Anything, "hello").Return([]float32{1, 2}, nil).Once()
	large := new(MockEmbedder)
	large.On("GenerateEmbedding", mock.Anything, "hello").Return([]float32{1, 2, 3}, nil).Once()

	_, err := newEmbeddingCache(small, store, "m", 2, time.Minute).GenerateEmbedding(context.Background(), "hello")
	require.NoError(t, err)

	vec, err := newEmbeddingCache(large, store, "m", 3, time.Minute).GenerateEmbedding(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 2, 3}, vec)
	assert.Len(t, store.data, 2)
	large.AssertExpectations(t)
}

func TestEmbeddingCache_RedisDownFallsThrough(t *testing.T) {
	next := new(MockEmbedder)
	store := newFakeKV()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	c := newEmbeddingCache(next, store, "m", 3, time.Minute)

	next.On("GenerateEmbedding", mock.Anything, "q").Return([]float32{1}, nil)

	vec, err := c.GenerateEmbedding(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
}

func TestEmbeddingCache_EmbedderErrorNotCached(t *testing.T) {
	next := new(MockEmbedder)
	store := newFakeKV()
	c := newEmbeddingCache(next, store, "m", 3, time.Minute)

	next.On("GenerateEmbedding", mock.Anything, "q").Return(nil, errors.New("quota exceeded"))

	_, err := c.GenerateEmbedding(context.Background(), "q")
	assert.EqualError(t, err, "quota exceeded")
	assert.Empty(t, store.data)
}

func TestEmbeddingCache_CorruptEntryIsReplaced(t *testing.T) {
	next := new(MockEmbedder)
	store := newFakeKV()
	c := newEmbeddingCache(next, store, "m", 3, time.Minute)
	store.data[c.key("q")] = []byte{1, 2, 3}

	next.On("GenerateEmbedding", mock.Anything, "q").Return([]float32{2}, nil).Once()

	vec, err := c.GenerateEmbedding(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{2}, vec)
	assert.Equal(t, encodeVector([]float32{2}), store.data[c.key("q")])
}

func TestDecodeVector(t *testing.T) {
	_, err := decodeVector(nil)
	assert.Error(t, err)

	_, err = decodeVector([]byte{0, 0, 0})
	assert.Error(t, err)

	vec, err := decodeVector(encodeVector([]float32{-0.25, 1e-7}))
	require.NoError(t, err)
	assert.Equal(t, []float32{-0.25, 1e-7}, vec)
}
