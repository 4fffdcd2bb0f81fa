package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloo-solutions/askdocs/internal/api"
	"github.com/cloo-solutions/askdocs/internal/domain"
)

type AskService interface {
	Ask(ctx context.Context, question string) (domain.Answer, error)
}

type AskHandler struct {
	svc AskService
}

func NewAskHandler(svc AskService) *AskHandler {
	return &AskHandler{svc: svc}
}

var errQuestionRequired = errors.New("question is required")

// Ask answers the "question" form field, sent url-encoded or multipart.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.AnswerError(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		api.AnswerError(w, http.StatusBadRequest, errors.New("invalid form body"))
		return
	}

	values := bodyValues(r, "question")
	if len(values) == 0 {
		api.AnswerError(w, http.StatusBadRequest, errQuestionRequired)
		return
	}

	ans, err := h.svc.Ask(r.Context(), values[0])
	if err != nil {
		reportError(r.Context(), err, "ask failed")
		api.AnswerError(w, http.StatusOK, err)
		return
	}

	api.Answer(w, ans)
}

// bodyValues reads a form field from the request body only, ignoring the
// URL query string.
func bodyValues(r *http.Request, key string) []string {
	if values := r.PostForm[key]; len(values) > 0 {
		return values
	}
	if r.MultipartForm != nil {
		return r.MultipartForm.Value[key]
	}
	return nil
}
