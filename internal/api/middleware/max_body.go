package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cloo-solutions/askdocs/internal/api"
)

var errBodyTooLarge = errors.New("request body too large")

// MaxBodyBytes caps request bodies at limit. Requests that declare a larger
// Content-Length are rejected up front with the envelope of the endpoint
// they target; streamed bodies fail when the handler reads past the limit.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				writeTooLarge(w, r)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func writeTooLarge(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/ask") {
		api.AnswerError(w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
		return
	}
	api.Error(w, http.StatusRequestEntityTooLarge, errBodyTooLarge.Error())
}
