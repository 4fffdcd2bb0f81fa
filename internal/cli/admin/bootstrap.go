package admin

import (
	"context"
	"fmt"

	"github.com/cloo-solutions/askdocs/internal/config"
	"github.com/cloo-solutions/askdocs/internal/database"
	"github.com/cloo-solutions/askdocs/internal/logger"
	"github.com/cloo-solutions/askdocs/internal/repository"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogging installs the global logger. --debug switches to console output.
func setupLogging(cfg *config.Config) {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
		log.Logger = logger.NewConsole(level)
	} else {
		log.Logger = logger.New(level)
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// openStore returns the pgvector store when a database is configured and the
// in-memory store otherwise. The returned close func is never nil.
func openStore(ctx context.Context, cfg *config.Config, migrate bool, migrationsDir string) (service.ChunkStore, func(), error) {
	if !cfg.HasDatabase() {
		log.Warn().Msg("ASKDOCS_DATABASE_URL not set, using in-memory store")
		return repository.NewMemoryChunkStore(cfg.CollectionDimensions), func() {}, nil
	}

	if migrate {
		if err := database.RunMigrations(cfg.DatabaseURL, migrationsDir); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msg("connected to database")

	return repository.NewChunkRepository(pool, cfg.CollectionDimensions), pool.Close, nil
}
