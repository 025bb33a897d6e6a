package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"adgen/internal/domain"
	"adgen/internal/infra"
)

// Options configures the point ledger client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the point ledger service. Deductions are
// irreversible from this side: there is no compensating refund call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

type checkRequest struct {
	Amount int `json:"amount"`
}

type checkResponse struct {
	Sufficient     bool `json:"sufficient"`
	CurrentBalance int  `json:"currentBalance"`
}

type useRequest struct {
	Amount    int    `json:"amount"`
	RefererID string `json:"refererId"`
}

type useResponse struct {
	Success         bool   `json:"success"`
	RemainingPoints int    `json:"remainingPoints"`
	Message         string `json:"message"`
}

// NewClient constructs a ledger client with sane defaults and injected dependencies.
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

// CheckSufficient asks the ledger whether the user can afford amount.
func (c *Client) CheckSufficient(ctx context.Context, amount int) (bool, int, error) {
	var out checkResponse
	if err := c.post(ctx, "/points/check-sufficient", checkRequest{Amount: amount}, &out); err != nil {
		return false, 0, fmt.Errorf("ledger: check sufficient: %w", err)
	}
	return out.Sufficient, out.CurrentBalance, nil
}

// Deduct spends amount points, tagged with refererID for the ledger's own
// bookkeeping. Returns the remaining balance reported by the ledger.
func (c *Client) Deduct(ctx context.Context, amount int, refererID string) (int, error) {
	var out useResponse
	if err := c.post(ctx, "/points/use", useRequest{Amount: amount, RefererID: refererID}, &out); err != nil {
		return 0, fmt.Errorf("ledger: deduct: %w", err)
	}
	if !out.Success {
		if out.Message != "" {
			return 0, fmt.Errorf("ledger: %s: %w", out.Message, domain.ErrLedger)
		}
		return 0, fmt.Errorf("ledger: deduction rejected: %w", domain.ErrLedger)
	}
	c.logger.Debug().Int("amount", amount).Int("remaining", out.RemainingPoints).Msg("ledger: points deducted")
	return out.RemainingPoints, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrInsufficientPoints)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrLedger)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
