package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// IngestResponse is the body returned by the upload endpoints on success.
type IngestResponse struct {
	Status         string `json:"status"`
	ChunksInserted int    `json:"chunks_inserted"`
	Message        string `json:"message"`
}

// StatusResponse is the body returned by the upload endpoints on failure
// and by the health check.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode response")
		}
	}
}

// Ingested writes the upload success envelope.
func Ingested(w http.ResponseWriter, chunks int, message string) {
	JSON(w, http.StatusOK, IngestResponse{
		Status:         StatusSuccess,
		ChunksInserted: chunks,
		Message:        message,
	})
}

// Error writes the upload failure envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, StatusResponse{Status: StatusError, Message: message})
}

// HandleError reports a service failure in the body. Failures past request
// decoding are not HTTP errors.
func HandleError(w http.ResponseWriter, err error) {
	Error(w, http.StatusOK, UserMessage(err))
}

// Answer writes an answer body.
func Answer(w http.ResponseWriter, ans domain.Answer) {
	if ans.Sources == nil {
		ans.Sources = []domain.AnswerSource{}
	}
	JSON(w, http.StatusOK, ans)
}

// AnswerError writes an "Error: ..." answer body with the given status code.
func AnswerError(w http.ResponseWriter, status int, err error) {
	JSON(w, status, domain.NewErrorAnswer(errors.New(UserMessage(err))))
}

// UserMessage returns the text shown to API callers for err. Domain errors
// carry their own message; anything else uses the full error chain.
func UserMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Err == nil {
		return domainErr.Message
	}
	return err.Error()
}
