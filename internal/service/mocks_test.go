package service

import (
	"context"
	"io"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockEmbedder is a mock implementation of Embedder
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

// MockChunkStore is a mock implementation of ChunkStore
type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) error {
	args := m.Called(ctx, chunk, embedding)
	return args.Error(0)
}

func (m *MockChunkStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.RetrievedResult, error) {
	args := m.Called(ctx, embedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedResult), args.Error(1)
}

func (m *MockChunkStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockParser is a mock implementation of DocumentParser
type MockParser struct {
	mock.Mock
}

func (m *MockParser) Parse(filename string, r io.Reader) ([]string, error) {
	args := m.Called(filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockArchive is a mock implementation of ArchiveStorage
type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

type fixedUUIDGenerator struct {
	id string
}

func (g *fixedUUIDGenerator) NewString() string {
	return g.id
}
