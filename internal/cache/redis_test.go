//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cloo-solutions/askdocs/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_Redis(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRedisContainer(ctx, t)
	defer rc.Terminate(ctx)

	client, err := ConnectRedis(ctx, rc.Addr(), "", 3)
	require.NoError(t, err)
	defer client.Close()

	next := new(MockEmbedder)
	next.On("GenerateEmbedding", mock.Anything, "hello").Return([]float32{0.1, 0.2, 0.3}, nil).Once()

	c := NewEmbeddingCache(next, client, "text-embedding-3-small", 3, time.Minute)

	first, err := c.GenerateEmbedding(ctx, "hello")
	require.NoError(t, err)
	second, err := c.GenerateEmbedding(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	next.AssertNumberOfCalls(t, "GenerateEmbedding", 1)

	ttl, err := client.TTL(ctx, c.key("hello")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := ConnectRedis(ctx, "127.0.0.1:1", "", 1)
	assert.Error(t, err)
}
