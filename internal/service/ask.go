package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/answer"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/telemetry"
	"github.com/rs/zerolog/log"
)

// AskService answers questions from stored chunks.
type AskService struct {
	embedder  Embedder
	store     ChunkStore
	extractor *answer.Extractor
	topK      int
}

// NewAskService creates a new AskService instance. topK is how many chunks
// are requested from the store per question.
func NewAskService(embedder Embedder, store ChunkStore, extractor *answer.Extractor, topK int) *AskService {
	if topK <= 0 {
		topK = answer.DefaultTopKChunks
	}
	if extractor == nil {
		extractor = answer.NewExtractor(answer.DefaultConfig(), nil)
	}
	return &AskService{
		embedder:  embedder,
		store:     store,
		extractor: extractor,
		topK:      topK,
	}
}

// Ask embeds the question, retrieves the closest chunks and extracts an
// answer. Finding nothing is not an error: the fallback answer is returned.
func (s *AskService) Ask(ctx context.Context, question string) (ans domain.Answer, err error) {
	ctx, span := telemetry.StartSpan(ctx, "AskService.Ask", telemetry.SpanAttributes{
		Operation: "ask",
	})
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("answer extraction panicked: %v", r)
			span.SetError(err)
		}
	}()

	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.NewDomainError(domain.ErrCodeValidation, "question is required")
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		span.SetError(err)
		return domain.Answer{}, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := s.store.Search(ctx, embedding, s.topK)
	if err != nil {
		span.SetError(err)
		return domain.Answer{}, fmt.Errorf("failed to search chunks: %w", err)
	}

	if len(results) == 0 {
		return domain.NewFallbackAnswer(), nil
	}

	ans = s.extractor.Extract(question, results)

	log.Ctx(ctx).Debug().
		Int("retrieved", len(results)).
		Int("sources", len(ans.Sources)).
		Msg("question answered")

	return ans, nil
}
