package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloo-solutions/askdocs/internal/answer"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAskService_Ask_Success(t *testing.T) {
	embedder := new(MockEmbedder)
	store := new(MockChunkStore)
	svc := NewAskService(embedder, store, nil, 5)

	question := "What is your refund policy?"
	embedder.On("GenerateEmbedding", mock.Anything, question).Return([]float32{0.1, 0.2}, nil)
	store.On("Search", mock.Anything, []float32{0.1, 0.2}, 5).Return([]domain.RetrievedResult{
		{
			Chunk: domain.Chunk{Source: "policy.pdf", ChunkIndex: 0, Text: "Our refund policy allows returns within 30 days. Contact support for help."},
			Score: 0.6,
		},
	}, nil)

	ans, err := svc.Ask(context.Background(), question)

	require.NoError(t, err)
	assert.Equal(t, "Our refund policy allows returns within 30 days. Contact support for help.", ans.Answer)
	assert.Equal(t, []domain.AnswerSource{{Source: "policy.pdf", ChunkIndex: 0}}, ans.Sources)
	embedder.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestAskService_Ask_NoResults(t *testing.T) {
	embedder := new(MockEmbedder)
	store := new(MockChunkStore)
	svc := NewAskService(embedder, store, nil, 0)

	embedder.On("GenerateEmbedding", mock.Anything, "anything").Return([]float32{1}, nil)
	store.On("Search", mock.Anything, []float32{1}, answer.DefaultTopKChunks).Return([]domain.RetrievedResult{}, nil)

	ans, err := svc.Ask(context.Background(), "anything")

	require.NoError(t, err)
	assert.Equal(t, domain.NewFallbackAnswer(), ans)
}

func TestAskService_Ask_UsesConfiguredThreshold(t *testing.T) {
	embedder := new(MockEmbedder)
	store := new(MockChunkStore)
	extractor := answer.NewExtractor(answer.Config{SimilarityThreshold: 0.8, MaxAnswerSentences: 3}, nil)
	svc := NewAskService(embedder, store, extractor, 3)

	embedder.On("GenerateEmbedding", mock.Anything, "refund").Return([]float32{1}, nil)
	store.On("Search", mock.Anything, []float32{1}, 3).Return([]domain.RetrievedResult{
		{Chunk: domain.Chunk{Source: "a", Text: "Refunds take 5 days."}, Score: 0.7},
	}, nil)

	ans, err := svc.Ask(context.Background(), "refund")

	require.NoError(t, err)
	assert.Equal(t, domain.FallbackAnswer, ans.Answer)
	assert.Empty(t, ans.Sources)
}

func TestAskService_Ask_EmbeddingError(t *testing.T) {
	embedder := new(MockEmbedder)
	store := new(MockChunkStore)
	svc := NewAskService(embedder, store, nil, 5)

	embedder.On("GenerateEmbedding", mock.Anything, "q").Return(nil, errors.New("quota exceeded"))

	_, err := svc.Ask(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	store.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestAskService_Ask_SearchError(t *testing.T) {
	embedder := new(MockEmbedder)
	store := new(MockChunkStore)
	svc := NewAskService(embedder, store, nil, 5)

	embedder.On("GenerateEmbedding", mock.Anything, "q").Return([]float32{1}, nil)
	store.On("Search", mock.Anything, []float32{1}, 5).Return(nil, errors.New("store unavailable"))

	_, err := svc.Ask(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestAskService_Ask_BlankQuestion(t *testing.T) {
	embedder := new(MockEmbedder)
	svc := NewAskService(embedder, new(MockChunkStore), nil, 5)

	_, err := svc.Ask(context.Background(), "   ")

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
	embedder.AssertNotCalled(t, "GenerateEmbedding", mock.Anything, mock.Anything)
}

type panickingStore struct {
	MockChunkStore
}

func (p *panickingStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.RetrievedResult, error) {
	panic("index corrupted")
}

func TestAskService_Ask_RecoversPanic(t *testing.T) {
	embedder := new(MockEmbedder)
	svc := NewAskService(embedder, &panickingStore{}, nil, 5)

	embedder.On("GenerateEmbedding", mock.Anything, "q").Return([]float32{1}, nil)

	_, err := svc.Ask(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index corrupted")
}
