// Package httpclient provides an authenticated JSON client with bounded
// exponential-backoff retry, shared by the tournament and card catalog
// gateways.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout     = 45 * time.Second
	defaultMaxAttempts = 3
)

// BackoffFunc returns how long to wait before the given retry attempt
// (1-based). Injectable so tests can run the retry loop with zero delay.
type BackoffFunc func(attempt int) time.Duration

// ExponentialBackoff waits 1s, 2s, 4s... before attempts 2, 3, 4...
func ExponentialBackoff(attempt int) time.Duration {
	return time.Second << (attempt - 1)
}

// NoBackoff retries immediately. Intended for tests.
func NoBackoff(int) time.Duration { return 0 }

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL     string
	AuthHeader  string // e.g. "Authorization"
	AuthValue   string // e.g. the raw API key or "Bearer <token>"
	Timeout     time.Duration
	MaxAttempts int
	Backoff     BackoffFunc
	UserAgent   string
}

// Client performs GET/POST requests against a JSON API, retrying on
// connection failures and non-2xx responses.
type Client struct {
	baseURL     string
	authHeader  string
	authValue   string
	maxAttempts int
	backoff     BackoffFunc
	userAgent   string
	httpClient  *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Backoff == nil {
		cfg.Backoff = ExponentialBackoff
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		authHeader:  cfg.AuthHeader,
		authValue:   cfg.AuthValue,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		userAgent:   cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Get issues a GET request to path with optional query parameters and
// returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

// Post issues a POST request with body marshaled as JSON and returns the
// raw JSON response body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, payload)
}

// do runs the request with retry. Each attempt rebuilds the request so the
// body reader is fresh. A response that is not valid JSON is a
// *DecodeError and is not retried.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (json.RawMessage, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.authHeader != "" {
			req.Header.Set(c.authHeader, c.authValue)
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, truncate(body, 256))
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("read response body: %w", readErr)
			continue
		}

		if !json.Valid(body) {
			return nil, &DecodeError{Endpoint: endpoint, Body: truncate(body, 256)}
		}
		return json.RawMessage(body), nil
	}

	return nil, &ExhaustedError{Endpoint: endpoint, Attempts: c.maxAttempts, Last: lastErr}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
