package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/api"
	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/cloo-solutions/askdocs/internal/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// multipart parts above this size spill to temporary files
const maxMultipartMemory = 32 << 20

type IngestService interface {
	UploadFile(ctx context.Context, input service.UploadFileInput) (*service.IngestResult, error)
	UploadCMS(ctx context.Context, records []service.CMSRecord) (*service.IngestResult, error)
}

type IngestHandler struct {
	svc IngestService
}

func NewIngestHandler(svc IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

const cmsSchemaJSON = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"title": {"type": "string"},
			"content": {"type": "string"}
		}
	}
}`

var cmsSchema = mustSchema(cmsSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in schema: %v", err))
	}
	return schema
}

// UploadFile ingests a multipart upload from the "file" field.
func (h *IngestHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeDecodeError(w, err, "invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.svc.UploadFile(r.Context(), service.UploadFileInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		reportError(r.Context(), err, "file upload failed")
		api.HandleError(w, err)
		return
	}

	api.Ingested(w, result.ChunksInserted, result.Message)
}

// UploadCMS ingests a JSON array of {title, content} records. Both keys are
// optional: a missing title falls back to the default source and a missing
// content skips the record.
func (h *IngestHandler) UploadCMS(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDecodeError(w, err, "invalid request body")
		return
	}

	if err := validateCMSPayload(body); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var records []service.CMSRecord
	if err := json.Unmarshal(body, &records); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.UploadCMS(r.Context(), records)
	if err != nil {
		reportError(r.Context(), err, "cms upload failed")
		api.HandleError(w, err)
		return
	}

	api.Ingested(w, result.ChunksInserted, result.Message)
}

func validateCMSPayload(body []byte) error {
	result, err := cmsSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", domain.ErrInvalidCMSPayload.Message, err)
	}
	if result.Valid() {
		return nil
	}

	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%s: %s", domain.ErrInvalidCMSPayload.Message, strings.Join(details, "; "))
}

// writeDecodeError maps request decoding failures to 413 or 400.
func writeDecodeError(w http.ResponseWriter, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	api.Error(w, http.StatusBadRequest, message)
}

// reportError logs a service failure. Validation outcomes are expected
// control flow and are not sent to Sentry.
func reportError(ctx context.Context, err error, msg string) {
	if domain.IsValidation(err) {
		log.Ctx(ctx).Info().Str("reason", api.UserMessage(err)).Msg(msg)
		return
	}
	log.Ctx(ctx).Error().Err(err).Msg(msg)
	telemetry.CaptureError(ctx, err)
}
