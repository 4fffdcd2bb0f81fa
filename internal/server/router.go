package server

import (
	"net/http"

	"github.com/cloo-solutions/askdocs/internal/api/handlers"
	"github.com/cloo-solutions/askdocs/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const defaultMaxBodyBytes int64 = 20 << 20

type RouterConfig struct {
	IngestHandler      *handlers.IngestHandler
	AskHandler         *handlers.AskHandler
	CORSAllowedOrigins []string
	MaxBodyBytes       int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", handlers.Health)

	// the widget posts to the trailing-slash form
	r.Post("/upload-file/", cfg.IngestHandler.UploadFile)
	r.Post("/upload-file", cfg.IngestHandler.UploadFile)
	r.Post("/upload-cms/", cfg.IngestHandler.UploadCMS)
	r.Post("/upload-cms", cfg.IngestHandler.UploadCMS)
	r.Post("/ask/", cfg.AskHandler.Ask)
	r.Post("/ask", cfg.AskHandler.Ask)

	return newCORS(cfg.CORSAllowedOrigins).Handler(r)
}

func newCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
	})
}
