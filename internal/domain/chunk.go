package domain

import (
	"fmt"
	"strings"
)

// Chunk is a stored, embeddable unit of source text with provenance metadata.
type Chunk struct {
	Source     string
	ChunkIndex int
	Text       string
}

// Key identifies a chunk within the collection.
func (c Chunk) Key() ChunkKey {
	return ChunkKey{Source: c.Source, ChunkIndex: c.ChunkIndex}
}

// ChunkKey is the (source, chunk_index) identity used for deduplication.
type ChunkKey struct {
	Source     string
	ChunkIndex int
}

// RetrievedResult is a chunk returned by a vector search along with its
// cosine similarity to the query.
type RetrievedResult struct {
	Chunk Chunk
	Score float64
}

// ValidateChunk validates a Chunk before it is embedded and stored.
func ValidateChunk(c Chunk) error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("chunk text is required")
	}
	if c.Source == "" {
		return fmt.Errorf("chunk source is required")
	}
	if c.ChunkIndex < 0 {
		return fmt.Errorf("chunk index cannot be negative")
	}
	return nil
}
