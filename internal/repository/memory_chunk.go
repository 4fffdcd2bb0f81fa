package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cloo-solutions/askdocs/internal/domain"
)

// MemoryChunkStore is an in-process chunk store using brute-force cosine
// similarity. It is used when no database is configured.
type MemoryChunkStore struct {
	mu         sync.RWMutex
	dimensions int
	chunks     []domain.Chunk
	vectors    [][]float32
}

// NewMemoryChunkStore creates an empty store. A dimensions value of zero
// accepts any vector length, fixed by the first insert.
func NewMemoryChunkStore(dimensions int) *MemoryChunkStore {
	return &MemoryChunkStore{dimensions: dimensions}
}

func (s *MemoryChunkStore) Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) error {
	if err := domain.ValidateChunk(chunk); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimensions == 0 {
		s.dimensions = len(embedding)
	}
	if len(embedding) != s.dimensions {
		return fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(embedding), s.dimensions)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	s.chunks = append(s.chunks, chunk)
	s.vectors = append(s.vectors, vec)
	return nil
}

func (s *MemoryChunkStore) Search(ctx context.Context, embedding []float32, topK int) ([]domain.RetrievedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if topK <= 0 || len(s.vectors) == 0 {
		return []domain.RetrievedResult{}, nil
	}
	if len(embedding) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(embedding), s.dimensions)
	}

	results := make([]domain.RetrievedResult, len(s.vectors))
	for i, v := range s.vectors {
		results[i] = domain.RetrievedResult{Chunk: s.chunks[i], Score: cosine(v, embedding)}
	}

	// stable so equal scores keep insertion order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *MemoryChunkStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.vectors = nil
	return nil
}

func (s *MemoryChunkStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
