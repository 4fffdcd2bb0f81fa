//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloo-solutions/askdocs/internal/answer"
	"github.com/cloo-solutions/askdocs/internal/api/handlers"
	"github.com/cloo-solutions/askdocs/internal/cache"
	"github.com/cloo-solutions/askdocs/internal/parser"
	"github.com/cloo-solutions/askdocs/internal/repository"
	"github.com/cloo-solutions/askdocs/internal/server"
	"github.com/cloo-solutions/askdocs/internal/service"
	"github.com/cloo-solutions/askdocs/internal/storage"
	"github.com/cloo-solutions/askdocs/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const dimensions = 384

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	RedisC       *testutil.RedisContainer
	Pool         *pgxpool.Pool
	Redis        *redis.Client
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	Embedder     *countingEmbedder
	BinaryDir    string
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)
	redisC := testutil.NewRedisContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "askdocs-e2e",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	rdb, err := cache.ConnectRedis(ctx, redisC.Addr(), "", 3)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	env := &E2ETestEnv{
		T:         t,
		Ctx:       ctx,
		PostgresC: pgC,
		RustFSC:   s3C,
		RedisC:    redisC,
		Pool:      pool,
		Redis:     rdb,
		S3Client:  s3Client,
		Embedder:  &countingEmbedder{},
	}
	env.ServerURL, env.ServerCloser = env.startServer(port)

	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Redis != nil {
		e.Redis.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RedisC != nil {
		e.RedisC.Terminate(e.Ctx)
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// ChunkCount returns the number of rows in document_chunks.
func (e *E2ETestEnv) ChunkCount() int {
	var n int
	if err := e.Pool.QueryRow(e.Ctx, "SELECT COUNT(*) FROM document_chunks").Scan(&n); err != nil {
		e.T.Fatalf("failed to count chunks: %v", err)
	}
	return n
}

func (e *E2ETestEnv) postForm(path, encoded string) (*http.Response, error) {
	return http.Post(e.ServerURL+path, "application/x-www-form-urlencoded", strings.NewReader(encoded))
}

// BuildBinaries builds the askdocs client binary
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "askdocs-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "askdocs"), "./cmd/askdocs")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build askdocs: %v\n%s", err, out)
	}
}

// RunAskdocs runs the askdocs CLI against the test server
func (e *E2ETestEnv) RunAskdocs(workDir string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "askdocs"), append([]string{"--api-url", e.ServerURL}, args...)...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func (e *E2ETestEnv) startServer(port int) (string, func()) {
	store := repository.NewChunkRepository(e.Pool, dimensions)
	embedder := cache.NewEmbeddingCache(e.Embedder, e.Redis, "keyword", dimensions, time.Hour)

	ingestSvc := service.NewIngestServiceWithArchive(parser.NewParser(), embedder, store, e.S3Client)
	askSvc := service.NewAskService(embedder, store, answer.NewExtractor(answer.DefaultConfig(), nil), answer.DefaultTopKChunks)

	router := server.NewRouter(server.RouterConfig{
		IngestHandler: handlers.NewIngestHandler(ingestSvc),
		AskHandler:    handlers.NewAskHandler(askSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			e.T.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(e.T, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

var embedKeywords = []string{"refund", "shipping", "hours", "contact", "warranty"}

// countingEmbedder maps text onto keyword slots of a fixed-size vector and
// counts calls, so tests can tell cache hits from misses.
type countingEmbedder struct {
	calls atomic.Int64
}

func (c *countingEmbedder) Calls() int64 {
	return c.calls.Load()
}

func (c *countingEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	lower := strings.ToLower(text)
	vec := make([]float32, dimensions)
	for i, kw := range embedKeywords {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	vec[dimensions-1] = 0.01
	return vec, nil
}
