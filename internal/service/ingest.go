package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/telemetry"
	"github.com/rs/zerolog/log"
)

const defaultCMSSource = "cms"

var (
	// ErrNoTextExtracted is returned when an uploaded file yields no chunks.
	ErrNoTextExtracted = domain.NewDomainError(domain.ErrCodeValidation, "No text could be extracted.")
	// ErrNoCMSContent is returned when a CMS upload carries no records.
	ErrNoCMSContent = domain.NewDomainError(domain.ErrCodeValidation, "No CMS content provided.")
)

// IngestService parses, embeds and stores documents.
type IngestService struct {
	parser   DocumentParser
	embedder Embedder
	store    ChunkStore
	archive  ArchiveStorage
	uuidGen  UUIDGenerator
}

// NewIngestService creates a new IngestService instance
func NewIngestService(parser DocumentParser, embedder Embedder, store ChunkStore) *IngestService {
	return NewIngestServiceWithArchive(parser, embedder, store, nil)
}

// NewIngestServiceWithArchive creates an IngestService that also copies raw
// uploads to archive storage. A nil archive disables archiving.
func NewIngestServiceWithArchive(parser DocumentParser, embedder Embedder, store ChunkStore, archive ArchiveStorage) *IngestService {
	return &IngestService{
		parser:   parser,
		embedder: embedder,
		store:    store,
		archive:  archive,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

type UploadFileInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// CMSRecord is one piece of CMS content. Title becomes the chunk source.
type CMSRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type IngestResult struct {
	ChunksInserted int
	Message        string
}

// UploadFile parses a file and stores one embedded chunk per parsed piece.
// Chunks are stored independently; a failure midway leaves earlier chunks
// in place.
func (s *IngestService) UploadFile(ctx context.Context, input UploadFileInput) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.UploadFile", telemetry.SpanAttributes{
		Source:    input.Filename,
		Operation: "upload_file",
	})
	defer span.End()

	data, err := io.ReadAll(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	chunks, err := s.parser.Parse(input.Filename, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrNoTextExtracted
	}

	s.archiveUpload(ctx, input, data)

	for i, text := range chunks {
		chunk := domain.Chunk{Source: input.Filename, ChunkIndex: i, Text: text}
		if err := s.storeChunk(ctx, chunk); err != nil {
			return nil, err
		}
	}

	log.Ctx(ctx).Info().
		Str("source", input.Filename).
		Int("chunks", len(chunks)).
		Msg("file ingested")

	return &IngestResult{
		ChunksInserted: len(chunks),
		Message:        fmt.Sprintf("Inserted %d chunks from %s", len(chunks), input.Filename),
	}, nil
}

// UploadCMS stores one embedded chunk per CMS record. Records with blank
// content are skipped but still counted, and keep their list position as
// chunk index.
func (s *IngestService) UploadCMS(ctx context.Context, records []CMSRecord) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.UploadCMS", telemetry.SpanAttributes{
		Source:    defaultCMSSource,
		Operation: "upload_cms",
	})
	defer span.End()

	if len(records) == 0 {
		return nil, ErrNoCMSContent
	}

	stored := 0
	for i, rec := range records {
		if strings.TrimSpace(rec.Content) == "" {
			continue
		}
		source := rec.Title
		if source == "" {
			source = defaultCMSSource
		}
		chunk := domain.Chunk{Source: source, ChunkIndex: i, Text: rec.Content}
		if err := s.storeChunk(ctx, chunk); err != nil {
			return nil, err
		}
		stored++
	}

	log.Ctx(ctx).Info().
		Int("records", len(records)).
		Int("stored", stored).
		Msg("cms content ingested")

	return &IngestResult{
		ChunksInserted: len(records),
		Message:        fmt.Sprintf("Inserted %d CMS chunks", len(records)),
	}, nil
}

// Reset drops every stored chunk.
func (s *IngestService) Reset(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Reset", telemetry.SpanAttributes{
		Operation: "reset",
	})
	defer span.End()

	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset collection: %w", err)
	}
	return nil
}

func (s *IngestService) storeChunk(ctx context.Context, chunk domain.Chunk) error {
	embedding, err := s.embedder.GenerateEmbedding(ctx, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to embed chunk %d of %s: %w", chunk.ChunkIndex, chunk.Source, err)
	}
	if err := s.store.Upsert(ctx, chunk, embedding); err != nil {
		return fmt.Errorf("failed to store chunk %d of %s: %w", chunk.ChunkIndex, chunk.Source, err)
	}
	return nil
}

// archiveUpload copies the raw file to archive storage. Failures are logged
// and reported but do not stop ingestion.
func (s *IngestService) archiveUpload(ctx context.Context, input UploadFileInput, data []byte) {
	if s.archive == nil {
		return
	}

	key := path.Join("uploads", s.uuidGen.NewString(), path.Base(input.Filename))
	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.archive.PutObject(ctx, key, contentType, data); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to archive upload")
		telemetry.CaptureError(ctx, err)
		return
	}
	telemetry.AddBreadcrumb(ctx, "archive", "stored "+key)
}
