// Package genai is the REST client for the generative-language API that backs
// both match-catalog providers and the audit oracle. The wire format to the
// model is implementation-defined; callers only rely on the returned text.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// Client is a thin generateContent client. It deliberately carries no request
// timeout of its own; callers bound each call through ctx so the acquisition
// orchestrator stays in charge of wall-clock budgets.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a generateContent client.
//
// baseURL is the API root, e.g. "https://generativelanguage.googleapis.com".
// A missing API key is a configuration error: the caller is expected to fail
// fast rather than issue requests that hang on auth retries.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("genai: missing api key: %w", domain.ErrConfiguration)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("genai: missing base url: %w", domain.ErrConfiguration)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}, nil
}

// GenerateText runs one generateContent call against the given model and
// returns the concatenated text of the first candidate.
func (c *Client) GenerateText(ctx context.Context, model string, req GenerateRequest) (string, error) {
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(model))

	body, err := c.doPost(ctx, path, req)
	if err != nil {
		return "", fmt.Errorf("genai: generate content: %w", err)
	}

	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("genai: empty response: %w", domain.ErrProviderFailure)
	}
	return text, nil
}

// doPost sends a JSON POST request authenticated with the API key header.
func (c *Client) doPost(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkHTTPStatus maps non-2xx responses to domain errors.
func checkHTTPStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("status %d: %w", status, domain.ErrRateLimited)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", status, domain.ErrConfiguration)
	default:
		return fmt.Errorf("status %d: %s: %w", status, truncate(body, 256), domain.ErrProviderFailure)
	}
}

// truncate bounds an error body for inclusion in messages.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
