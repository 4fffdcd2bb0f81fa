package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const envPrefix = "ASKDOCS"

type Config struct {
	Port     string `envconfig:"PORT" default:"8000"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty selects the in-memory store.
	DatabaseURL          string `envconfig:"DATABASE_URL"`
	CollectionDimensions int    `envconfig:"COLLECTION_DIMENSIONS" default:"384"`
	ResetOnStart         bool   `envconfig:"RESET_ON_START" default:"false"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `envconfig:"OPENAI_BASE_URL"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`

	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	EmbeddingCacheTTL time.Duration `envconfig:"EMBEDDING_CACHE_TTL" default:"24h"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"askdocs-uploads"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	SimilarityThreshold float64 `envconfig:"SIMILARITY_THRESHOLD" default:"0.3"`
	TopKChunks          int     `envconfig:"TOP_K_CHUNKS" default:"5"`
	MaxAnswerSentences  int     `envconfig:"MAX_ANSWER_SENTENCES" default:"3"`
	VocabularyFile      string  `envconfig:"VOCABULARY_FILE"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxUploadBytes     int64    `envconfig:"MAX_UPLOAD_BYTES" default:"20971520"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg
}

// Validate rejects settings the answer pipeline cannot run with.
func (c *Config) Validate() error {
	if c.CollectionDimensions <= 0 {
		return fmt.Errorf("%s_COLLECTION_DIMENSIONS must be positive, got %d", envPrefix, c.CollectionDimensions)
	}
	if c.TopKChunks <= 0 {
		return fmt.Errorf("%s_TOP_K_CHUNKS must be positive, got %d", envPrefix, c.TopKChunks)
	}
	if c.MaxAnswerSentences <= 0 {
		return fmt.Errorf("%s_MAX_ANSWER_SENTENCES must be positive, got %d", envPrefix, c.MaxAnswerSentences)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%s_SIMILARITY_THRESHOLD must be within [-1, 1], got %g", envPrefix, c.SimilarityThreshold)
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}
