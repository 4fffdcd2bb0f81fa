package repository

import (
	"context"
	"testing"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChunkStore_SearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(2)

	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", ChunkIndex: 0, Text: "east"}, []float32{1, 0}))
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", ChunkIndex: 1, Text: "north"}, []float32{0, 1}))
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "b", ChunkIndex: 0, Text: "north-east"}, []float32{1, 1}))

	results, err := store.Search(ctx, []float32{2, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "east", results[0].Chunk.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "north-east", results[1].Chunk.Text)
	assert.InDelta(t, 0.7071, results[1].Score, 1e-4)
}

func TestMemoryChunkStore_SearchTopKLargerThanStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(2)
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "only"}, []float32{1, 0}))

	results, err := store.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryChunkStore_SearchEmpty(t *testing.T) {
	store := NewMemoryChunkStore(2)

	results, err := store.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestMemoryChunkStore_TiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(2)
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "first", Text: "x"}, []float32{1, 0}))
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "second", Text: "x"}, []float32{1, 0}))

	results, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, "first", results[0].Chunk.Source)
	assert.Equal(t, "second", results[1].Chunk.Source)
}

func TestMemoryChunkStore_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(3)

	err := store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{1, 0, 0}))
	_, err = store.Search(ctx, []float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestMemoryChunkStore_ZeroDimensionsFixedByFirstInsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(0)

	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{1, 0, 0, 0}))
	err := store.Upsert(ctx, domain.Chunk{Source: "a", Text: "y"}, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestMemoryChunkStore_RejectsInvalidChunk(t *testing.T) {
	store := NewMemoryChunkStore(1)

	err := store.Upsert(context.Background(), domain.Chunk{Source: "a", Text: "  "}, []float32{1})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestMemoryChunkStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(1)
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{1}))

	require.NoError(t, store.Reset(ctx))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{1}))
	n, _ = store.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryChunkStore_ZeroVectorScoresZero(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryChunkStore(2)
	require.NoError(t, store.Upsert(ctx, domain.Chunk{Source: "a", Text: "x"}, []float32{0, 0}))

	results, err := store.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, results[0].Score)
}
