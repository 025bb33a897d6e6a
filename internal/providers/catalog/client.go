package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
)

// Options configures the model catalog client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client reads model details from the marketplace catalog. The pipeline only
// needs it as the last resolver tier, when a model carries neither an
// embedded seed file id nor an explicit one.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

type modelFile struct {
	ID int64 `json:"id"`
}

type modelDetailResponse struct {
	ID    string      `json:"id"`
	Files []modelFile `json:"files"`
}

// NewClient constructs a catalog client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
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

// FirstFileID fetches the model's full detail and returns the id of its first
// file entry. An empty file list means the model has no usable backing asset.
func (c *Client) FirstFileID(ctx context.Context, modelID string) (int64, error) {
	endpoint := c.baseURL + "/models/" + url.PathEscape(modelID) + "/full-detail"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("catalog: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("catalog: read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("catalog: model %s: %w", modelID, domain.ErrModelAssetNotFound)
	}
	if resp.StatusCode >= 300 {
		return 0, fmt.Errorf("catalog: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded modelDetailResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fmt.Errorf("catalog: decode response: %w", err)
	}
	if len(decoded.Files) == 0 {
		return 0, fmt.Errorf("catalog: model %s has no files: %w", modelID, domain.ErrModelAssetNotFound)
	}
	c.logger.Debug().Str("model_id", modelID).Int64("file_id", decoded.Files[0].ID).Msg("catalog: resolved model file")
	return decoded.Files[0].ID, nil
}
