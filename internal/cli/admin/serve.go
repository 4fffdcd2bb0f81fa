package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/askdocs/internal/answer"
	"github.com/cloo-solutions/askdocs/internal/api/handlers"
	"github.com/cloo-solutions/askdocs/internal/cache"
	"github.com/cloo-solutions/askdocs/internal/config"
	"github.com/cloo-solutions/askdocs/internal/openai"
	"github.com/cloo-solutions/askdocs/internal/parser"
	"github.com/cloo-solutions/askdocs/internal/server"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/cloo-solutions/askdocs/internal/storage"
	"github.com/cloo-solutions/askdocs/internal/telemetry"
	"github.com/rs/zerolog/log"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

const redisConnectRetries = 5

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the askdocs API server: document upload, CMS upload and question answering.",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides ASKDOCS_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", "migrations", "Directory holding SQL migrations")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)

	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: telemetry.DefaultSampleRate(cfg.Environment),
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Warn().Err(err).Msg("telemetry init failed, continuing without tracing")
	} else {
		defer shutdownTelemetry()
	}

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		cfg.Port = portFlag
	}

	if !cfg.HasOpenAI() {
		return errors.New("ASKDOCS_OPENAI_API_KEY is required to embed documents and questions")
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	migrationsDir, _ := cmd.Flags().GetString("migrations")
	store, closeStore, err := openStore(ctx, cfg, !noMigrate, migrationsDir)
	if err != nil {
		return err
	}
	defer closeStore()

	embedder, closeEmbedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	var archive service.ArchiveStorage
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Info().Str("bucket", s3Client.Bucket()).Msg("upload archive ready")
		archive = s3Client
	}

	vocab := answer.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		vocab, err = answer.LoadVocabulary(cfg.VocabularyFile)
		if err != nil {
			return fmt.Errorf("failed to load vocabulary: %w", err)
		}
		log.Info().Str("file", cfg.VocabularyFile).Msg("vocabulary loaded")
	}
	extractor := answer.NewExtractor(answer.Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		MaxAnswerSentences:  cfg.MaxAnswerSentences,
	}, vocab)

	ingestSvc := service.NewIngestServiceWithArchive(parser.NewParser(), embedder, store, archive)
	askSvc := service.NewAskService(embedder, store, extractor, cfg.TopKChunks)

	if cfg.ResetOnStart {
		if err := ingestSvc.Reset(ctx); err != nil {
			return err
		}
		log.Info().Msg("collection reset on start")
	}

	router := server.NewRouter(server.RouterConfig{
		IngestHandler:      handlers.NewIngestHandler(ingestSvc),
		AskHandler:         handlers.NewAskHandler(askSvc),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}

// newEmbedder builds the OpenAI embedder, fronted by the Redis cache when
// ASKDOCS_REDIS_ADDR is set.
func newEmbedder(ctx context.Context, cfg *config.Config) (service.Embedder, func(), error) {
	client := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		EmbeddingModel:      goopenai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.CollectionDimensions,
	})

	if !cfg.HasRedis() {
		return client, func() {}, nil
	}

	rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, redisConnectRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.EmbeddingCacheTTL).Msg("embedding cache enabled")

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	return cache.NewEmbeddingCache(client, rdb, cfg.EmbeddingModel, cfg.CollectionDimensions, cfg.EmbeddingCacheTTL), closeFn, nil
}
