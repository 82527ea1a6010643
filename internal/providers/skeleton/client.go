// Package skeleton calls the pose-to-skeleton service that turns a reference
// photo into a stickman overlay.
package skeleton

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lookbook/internal/domain"
)

type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:      strings.TrimSpace(opts.APIKey),
	}
}

type skeletonRequest struct {
	ImageURL string `json:"image_url"`
}

type skeletonResponse struct {
	ImageURL string   `json:"image_url"`
	Images   []string `json:"images"`
	Error    string   `json:"error"`
}

// Skeleton returns the url of the skeletal overlay for imageURL.
func (c *Client) Skeleton(ctx context.Context, imageURL string) (string, error) {
	if c == nil || c.baseURL == "" {
		return "", errors.New("skeleton: client not configured")
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return "", errors.New("skeleton: image url required")
	}
	body, err := json.Marshal(skeletonRequest{ImageURL: trimmed})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/skeleton", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("skeleton: %w", err)
	}
	defer resp.Body.Close()

	var out skeletonResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("skeleton: %w: http %d", domain.ErrProviderFailure, resp.StatusCode)
		}
		return "", fmt.Errorf("skeleton: decode: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != "" {
			return "", fmt.Errorf("skeleton: %w: %s", domain.ErrProviderFailure, out.Error)
		}
		return "", fmt.Errorf("skeleton: %w: http %d", domain.ErrProviderFailure, resp.StatusCode)
	}
	if url := strings.TrimSpace(out.ImageURL); url != "" {
		return url, nil
	}
	for _, u := range out.Images {
		if u = strings.TrimSpace(u); u != "" {
			return u, nil
		}
	}
	return "", fmt.Errorf("skeleton: %w: empty response", domain.ErrProviderFailure)
}
