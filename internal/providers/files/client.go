package files

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
)

// Options configures the file upload client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client uploads binary assets to the backend file store. A failed upload is
// terminal for the calling run; no retries happen here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

type uploadResponse struct {
	FileID  int64  `json:"fileId"`
	Message string `json:"message"`
}

// NewClient constructs an upload client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.Nop()
		logger = &discard
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Upload posts the image as multipart form data and returns the backend file id.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("files: empty payload: %w", domain.ErrUpload)
	}
	if strings.TrimSpace(name) == "" {
		name = "upload.png"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return 0, fmt.Errorf("files: create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return 0, fmt.Errorf("files: write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("files: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return 0, fmt.Errorf("files: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("files: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("files: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("files: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrUpload)
	}

	var decoded uploadResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fmt.Errorf("files: decode response: %w", err)
	}
	if decoded.FileID == 0 {
		return 0, fmt.Errorf("files: missing file id: %w", domain.ErrUpload)
	}
	c.logger.Debug().Int64("file_id", decoded.FileID).Int("bytes", len(data)).Msg("files: uploaded asset")
	return decoded.FileID, nil
}
