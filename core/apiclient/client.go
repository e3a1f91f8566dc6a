package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/techfixpro/appkit/core/logger"
)

// Client is an HTTP client for the backend API with automatic retries,
// per-attempt timeouts and bearer token authentication. Safe for concurrent
// use.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for request lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client from the configuration. Zero or negative retry and
// timeout values fall back to safe defaults.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken attaches a bearer token to every subsequent request.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearAuthToken removes the bearer token.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// AuthToken returns the currently attached bearer token, empty when none.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out)
}

// Delete issues a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

// Do executes a request against the API with the configured retry policy:
// up to MaxRetries attempts in total, with a linearly growing delay between
// them. Server errors, timeouts, rate limiting and network failures are
// retried; other client errors are returned immediately. The returned error
// is always an *Error when the request itself failed.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: failed to encode request body: %w", err)
		}
		payload = data
	}

	var lastErr *Error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		err := c.attempt(ctx, method, endpoint, payload, out)
		if err == nil {
			return nil
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			return err
		}
		lastErr = apiErr

		if !apiErr.retryable() || attempt == c.cfg.MaxRetries {
			break
		}

		c.log.Warn("request failed, retrying",
			logger.Method(method),
			logger.Endpoint(endpoint),
			logger.StatusCode(apiErr.Status),
			logger.Attempt(attempt),
		)

		select {
		case <-ctx.Done():
			return &Error{Message: ctx.Err().Error(), Status: 0}
		case <-time.After(c.cfg.RetryDelay * time.Duration(attempt)):
		}
	}

	c.log.Error("request failed",
		logger.Method(method),
		logger.Endpoint(endpoint),
		logger.StatusCode(lastErr.Status),
	)
	return lastErr
}

func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("apiclient: failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.AuthToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &Error{Message: "request timed out", Status: 408}
		}
		return &Error{Message: err.Error(), Status: 0}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: err.Error(), Status: 0}
	}

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp, data)
	}

	return decodeBody(resp, data, out)
}

// errorFromResponse builds an *Error from a failed response, preferring the
// backend's structured error message when the body carries one.
func errorFromResponse(resp *http.Response, data []byte) *Error {
	apiErr := &Error{
		Message: fmt.Sprintf("HTTP error: %d", resp.StatusCode),
		Status:  resp.StatusCode,
	}

	if isJSON(resp) {
		var decoded any
		if err := json.Unmarshal(data, &decoded); err == nil {
			apiErr.Data = decoded
			if msg := errorMessage(decoded); msg != "" {
				apiErr.Message = msg
			}
		}
	} else if len(data) > 0 {
		apiErr.Data = string(data)
	}

	return apiErr
}

// errorMessage digs the message out of the backend's error envelope,
// {"error": {"message": "..."}}, falling back to a top-level "message".
func errorMessage(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	if inner, ok := obj["error"].(map[string]any); ok {
		if msg, ok := inner["message"].(string); ok {
			return msg
		}
	}
	if msg, ok := obj["message"].(string); ok {
		return msg
	}
	return ""
}

// decodeBody dispatches on the response content type: JSON bodies decode
// into out, anything else is treated as text and requires a *string.
func decodeBody(resp *http.Response, data []byte, out any) error {
	if out == nil || len(data) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if isJSON(resp) {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("apiclient: failed to decode response: %w", err)
		}
		return nil
	}

	s, ok := out.(*string)
	if !ok {
		return fmt.Errorf("apiclient: non-JSON response requires a *string target, got %T", out)
	}
	*s = string(data)
	return nil
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}
