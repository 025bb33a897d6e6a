package generate

import (
	"bytes"
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

// Options configures the generation backend client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client talks to the generation backend: it submits background-removal jobs,
// fetches job status, and runs composes. Compose returns its terminal result
// in the submit response itself instead of handing back a pollable job id;
// the backend contract is asymmetric here and the client mirrors it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

type removeBGRequest struct {
	FileID int64 `json:"fileId"`
}

type submitResponse struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

type jobStatusResponse struct {
	Status       string `json:"status"`
	ResultFileID int64  `json:"resultFileId"`
	ErrorMessage string `json:"errorMessage"`
}

type composeRequest struct {
	ProductFileID int64  `json:"productFileId"`
	ModelFileID   int64  `json:"modelFileId"`
	CustomPrompt  string `json:"customPrompt"`
}

type composeResponse struct {
	Status        string `json:"status"`
	ResultFileURL string `json:"resultFileUrl"`
	ResultFileID  int64  `json:"resultFileId"`
	ErrorMessage  string `json:"errorMessage"`
}

// NewClient constructs a generation client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
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

// SubmitBackgroundRemoval starts a background-removal job for the uploaded file.
func (c *Client) SubmitBackgroundRemoval(ctx context.Context, fileID int64) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/generate/remove-bg", removeBGRequest{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("generate: submit remove-bg: %w", err)
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("generate: decode remove-bg response: %w", err)
	}
	if decoded.JobID == "" {
		return "", fmt.Errorf("generate: missing job id: %w", domain.ErrJobRequest)
	}
	c.logger.Debug().Str("job_id", decoded.JobID).Int64("file_id", fileID).Msg("generate: remove-bg submitted")
	return decoded.JobID, nil
}

// JobStatus fetches the current state of a submitted job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (domain.Job, error) {
	raw, err := c.do(ctx, http.MethodGet, "/generate/jobs/"+url.PathEscape(jobID), nil)
	if err != nil {
		return domain.Job{}, fmt.Errorf("generate: job status: %w", err)
	}
	var decoded jobStatusResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.Job{}, fmt.Errorf("generate: decode job status: %w", err)
	}
	return domain.Job{
		ID:           jobID,
		Status:       domain.JobStatus(decoded.Status),
		ResultFileID: decoded.ResultFileID,
		ErrorMessage: decoded.ErrorMessage,
	}, nil
}

// SubmitCompose runs the compose step and returns its terminal result.
func (c *Client) SubmitCompose(ctx context.Context, productFileID, modelFileID int64, prompt string) (*domain.ComposeResult, error) {
	payload := composeRequest{
		ProductFileID: productFileID,
		ModelFileID:   modelFileID,
		CustomPrompt:  prompt,
	}
	raw, err := c.do(ctx, http.MethodPost, "/compose/compose", payload)
	if err != nil {
		return nil, fmt.Errorf("generate: submit compose: %w", err)
	}
	var decoded composeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("generate: decode compose response: %w", err)
	}
	if domain.JobStatus(decoded.Status) == domain.JobStatusFailed {
		msg := decoded.ErrorMessage
		if msg == "" {
			msg = "compose reported failure"
		}
		return nil, fmt.Errorf("generate: %s: %w", msg, domain.ErrCompose)
	}
	if decoded.ResultFileURL == "" {
		return nil, fmt.Errorf("generate: missing compose result url: %w", domain.ErrCompose)
	}
	c.logger.Debug().Int64("result_file_id", decoded.ResultFileID).Msg("generate: compose finished")
	return &domain.ComposeResult{ResultFileURL: decoded.ResultFileURL, ResultFileID: decoded.ResultFileID}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrJobRequest)
	}
	return raw, nil
}
