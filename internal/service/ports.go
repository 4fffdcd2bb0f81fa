package service

import (
	"context"
	"io"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/google/uuid"
)

// Embedder defines the interface for generating embeddings
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore persists embedded chunks and searches them by cosine similarity.
type ChunkStore interface {
	Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) error
	// Search returns at most topK results ordered by descending similarity.
	Search(ctx context.Context, embedding []float32, topK int) ([]domain.RetrievedResult, error)
	// Reset removes every stored chunk, keeping the collection schema.
	Reset(ctx context.Context) error
}

// DocumentParser extracts text chunks from a named document.
type DocumentParser interface {
	Parse(filename string, r io.Reader) ([]string, error)
}

// ArchiveStorage keeps a copy of uploaded files.
type ArchiveStorage interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
}

// UUIDGenerator defines the interface for generating UUIDs
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator implements UUIDGenerator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}
