// Package generation talks to the image generation service. Each shot is sent
// twice: once as a preview that returns prompt text without billing, and once
// as a commit that renders the image.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"lookbook/internal/domain"
	"lookbook/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("generation: api key is required")

// Generator is the contract the preview assembler and batch executor use.
type Generator interface {
	Preview(ctx context.Context, req Request) (*PreviewResult, error)
	Commit(ctx context.Context, req Request) (*CommitResult, error)
}

// Options configures the generation client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	// RatePerMinute paces outgoing calls. Zero disables pacing.
	RatePerMinute int
}

// Client performs HTTP calls to the generation service.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *infra.Logger
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewClient constructs a client with defaults applied.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("generation: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 180 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	var limiter *rate.Limiter
	if opts.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.New(io.Discard))
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Preview asks for the structured summary and prompt of a shot.
func (c *Client) Preview(ctx context.Context, req Request) (*PreviewResult, error) {
	req.Preview = true
	var out PreviewResult
	if err := c.post(ctx, req, &out); err != nil {
		return nil, err
	}
	if len(out.Previews) == 0 {
		return nil, fmt.Errorf("generation: %w: empty preview list", domain.ErrProviderFailure)
	}
	return &out, nil
}

// Commit renders the shot and returns the image urls.
func (c *Client) Commit(ctx context.Context, req Request) (*CommitResult, error) {
	req.Preview = false
	var out CommitResult
	if err := c.post(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.FirstImage() == "" {
		return nil, fmt.Errorf("generation: %w: empty image list", domain.ErrProviderFailure)
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, payload Request, out any) error {
	if !c.HasCredentials() {
		return ErrMissingAPIKey
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("generation: rate wait: %w", err)
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("generation: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("generation: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("generation: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("generation: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil {
			if msg := firstNonEmpty(detail.Message, detail.Error); msg != "" {
				return fmt.Errorf("generation: %w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("generation: %w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("generation: %w: decode response: %v", domain.ErrProviderFailure, err)
	}
	c.logger.Debug().
		Bool("preview", payload.Preview).
		Str("view", string(payload.View)).
		Dur("took", time.Since(started)).
		Msg("generation: call complete")
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
