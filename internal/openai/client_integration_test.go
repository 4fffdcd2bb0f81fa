//go:build integration

package openai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GenerateEmbedding_RealAPI(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	client := NewClient(apiKey)
	ctx := context.Background()

	first, err := client.GenerateEmbedding(ctx, "How long do refunds take?")
	require.NoError(t, err)
	assert.Len(t, first, DefaultEmbeddingDimensions)

	second, err := client.GenerateEmbedding(ctx, "How long do refunds take?")
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}
