// Package api is the HTTP layer under the stats client. The upstream
// is a read-only JSON API, so the client speaks GET exclusively and
// keeps retry and backoff decisions here rather than in the callers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mlb-lineup-bot/internal/logger"
)

// Client issues GET requests against a single JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	useLogging bool
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL sets the base URL prepended to every request path
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithLogging enables request/response logging
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) logDebug(ctx context.Context, msg string, args ...interface{}) {
	if c.useLogging {
		logger.Debug(ctx, msg, args...)
	}
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...interface{}) {
	if c.useLogging {
		logger.Warn(ctx, msg, args...)
	}
}

// Response is a fully read HTTP response body.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// ParseJSON decodes the response body into v.
func (r *Response) ParseJSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// StatusError is a non-2xx response. It is kept as a typed error so
// the retry loop can tell rate limiting and server faults apart from
// plain bad requests.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Retryable reports whether another attempt can change the outcome:
// rate limiting or a server-side fault.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// GET fetches a path relative to the base URL, one attempt.
func (c *Client) GET(ctx context.Context, path string) (*Response, error) {
	url := path
	if c.baseURL != "" {
		url = c.baseURL + path
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logWarn(ctx, "HTTP request failed", "url", url, "error", err)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logDebug(ctx, "HTTP Response",
		"url", url,
		"status", httpResp.StatusCode,
		"duration", time.Since(start),
		"bodySize", len(body))

	if httpResp.StatusCode >= 400 {
		c.logWarn(ctx, "HTTP error response", "url", url, "status", httpResp.StatusCode)
		return nil, &StatusError{Code: httpResp.StatusCode, Body: string(body)}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Header:     httpResp.Header,
	}, nil
}

// RetryPolicy configures retry behavior
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryPolicy returns the retry policy used for boxscore-class
// fetches: a few attempts with doubling backoff.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     5 * time.Second,
	}
}

// GETWithRetry fetches a path, retrying network errors and retryable
// statuses with backoff. A 4xx other than 429 fails immediately; more
// attempts cannot fix a bad request. Backoff waits respect ctx.
func (c *Client) GETWithRetry(ctx context.Context, path string, policy *RetryPolicy) (*Response, error) {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}

	var lastErr error
	wait := policy.InitialWait

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		resp, err := c.GET(ctx, path)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return nil, err
		}
		if attempt == policy.MaxAttempts {
			break
		}

		c.logWarn(ctx, "Request failed, retrying",
			"path", path, "attempt", attempt, "error", err, "wait", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
		if wait > policy.MaxWait {
			wait = policy.MaxWait
		}
	}

	return nil, fmt.Errorf("all %d attempts failed: %w", policy.MaxAttempts, lastErr)
}

// StatsAPIHeaders returns default headers for the MLB Stats API
func StatsAPIHeaders() map[string]string {
	return map[string]string{
		"User-Agent": "mlb-lineup-bot/1.0",
		"Accept":     "application/json",
	}
}
