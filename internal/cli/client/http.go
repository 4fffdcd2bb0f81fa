package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	envAPIURL = "ASKDOCS_API_URL"

	defaultAPIURL = "http://localhost:8000"
)

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClientWithCmd resolves the server URL from the --api-url flag, then
// ASKDOCS_API_URL, then the default. A nil cmd skips the flag.
func NewAPIClientWithCmd(cmd *cobra.Command) *APIClient {
	_ = godotenv.Load()

	var baseURL string
	if cmd != nil {
		if flagURL, err := cmd.Flags().GetString("api-url"); err == nil && flagURL != "" {
			baseURL = flagURL
		}
	}
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	return NewAPIClientWithConfig(baseURL, 2*time.Minute)
}

func NewAPIClientWithConfig(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IngestResponse mirrors the upload endpoints' body.
type IngestResponse struct {
	Status         string `json:"status"`
	ChunksInserted int    `json:"chunks_inserted"`
	Message        string `json:"message"`
}

// CMSRecord is one entry of an upload-cms payload.
type CMSRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type AnswerSource struct {
	Source string `json:"source"`
	Chunk  int    `json:"chunk"`
}

// AskResponse mirrors the /ask/ body.
type AskResponse struct {
	Answer  string         `json:"answer"`
	Sources []AnswerSource `json:"sources"`
}

// APIError represents a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// UploadFile posts a local file to /upload-file/. onProgress may be nil.
func (c *APIClient) UploadFile(ctx context.Context, path string, onProgress ProgressFunc) (*IngestResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	reader := &progressReader{reader: file, total: stat.Size(), onProgress: onProgress}
	if _, err := io.Copy(part, reader); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	var out IngestResponse
	if err := c.do(ctx, "/upload-file/", mw.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCMS posts CMS records to /upload-cms/.
func (c *APIClient) UploadCMS(ctx context.Context, records []CMSRecord) (*IngestResponse, error) {
	if records == nil {
		records = []CMSRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	var out IngestResponse
	if err := c.do(ctx, "/upload-cms/", "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask posts a question to /ask/.
func (c *APIClient) Ask(ctx context.Context, question string) (*AskResponse, error) {
	form := url.Values{"question": {question}}

	var out AskResponse
	if err := c.do(ctx, "/ask/", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) do(ctx context.Context, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorMessage pulls the human-readable text out of an error body.
func errorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Answer  string `json:"answer"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Answer != "" {
			return envelope.Answer
		}
	}
	return strings.TrimSpace(string(body))
}

// ProgressFunc is a callback for reporting upload progress.
type ProgressFunc func(current, total int64)

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	current    int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.current += int64(n)
	if pr.onProgress != nil {
		pr.onProgress(pr.current, pr.total)
	}
	return n, err
}
