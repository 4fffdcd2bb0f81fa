package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRepository stores embedded chunks in the document_chunks table and
// ranks them with pgvector's cosine distance operator.
type ChunkRepository struct {
	db         dbtx
	dimensions int
}

func NewChunkRepository(pool *pgxpool.Pool, dimensions int) *ChunkRepository {
	return &ChunkRepository{db: pool, dimensions: dimensions}
}

// Upsert inserts a chunk under a fresh id. Re-ingesting a document adds new
// rows; duplicates are collapsed at answer time.
func (r *ChunkRepository) Upsert(ctx context.Context, chunk domain.Chunk, embedding []float32) error {
	if err := domain.ValidateChunk(chunk); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid chunk", err)
	}
	if r.dimensions > 0 && len(embedding) != r.dimensions {
		return fmt.Errorf("%w: got %d, expected %d", domain.ErrDimensionMismatch, len(embedding), r.dimensions)
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO document_chunks (id, source, chunk_index, text, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(),
		chunk.Source,
		chunk.ChunkIndex,
		chunk.Text,
		pgvector.NewVector(embedding),
		time.Now().UTC(),
	)
	return err
}

func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, topK int) ([]domain.RetrievedResult, error) {
	if topK <= 0 {
		return []domain.RetrievedResult{}, nil
	}

	vec := pgvector.NewVector(embedding)
	rows, err := r.db.Query(ctx,
		`SELECT source, chunk_index, text, 1 - (embedding <=> $1) AS score
		 FROM document_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		vec, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.RetrievedResult, 0, topK)
	for rows.Next() {
		var res domain.RetrievedResult
		if err := rows.Scan(&res.Chunk.Source, &res.Chunk.ChunkIndex, &res.Chunk.Text, &res.Score); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Reset removes every row. The table and its indexes are kept.
func (r *ChunkRepository) Reset(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `TRUNCATE TABLE document_chunks`)
	return err
}

// Count returns the number of stored chunks.
func (r *ChunkRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&n)
	return n, err
}
