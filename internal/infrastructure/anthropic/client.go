package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"NewsScreener/internal/config"
	"NewsScreener/internal/ports"
)

const messagesPath = "/v1/messages"

// APIError carries the status and body of a failed Messages API call.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("anthropic: %s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("anthropic: status %d: %s", e.StatusCode, e.Message)
}

// Retryable reports whether the call may succeed on a later attempt.
// Rate limits and server-side failures are transient; other client
// errors are permanent.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client talks to the Anthropic Messages API. In-flight calls are capped
// by a semaphore and transient failures retry with exponential backoff.
type Client struct {
	baseURL    string
	apiKey     string
	version    string
	httpClient *http.Client
	sem        chan struct{}
	retry      config.RetryConfig
	onRetry    func()
}

var _ ports.ChatCompleter = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.AnthropicConfig) *Client {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = 3
	}
	if retry.InitialBackoff <= 0 {
		retry.InitialBackoff = 2 * time.Second
	}
	if retry.MaxBackoff <= 0 {
		retry.MaxBackoff = 8 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		version:    cfg.Version,
		httpClient: &http.Client{Timeout: timeout},
		sem:        make(chan struct{}, maxConcurrent),
		retry:      retry,
	}
}

// SetRetryNotifier installs a callback invoked once per retried attempt.
func (c *Client) SetRetryNotifier(fn func()) {
	c.onRetry = fn
}

// Complete sends the prompt and returns the first text block of the reply.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if c.apiKey == "" || c.baseURL == "" {
		return "", fmt.Errorf("anthropic client misconfigured")
	}
	if req.Model == "" {
		return "", fmt.Errorf("anthropic: model is required")
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	var reply string
	err := c.withRetry(ctx, func() error {
		var callErr error
		reply, callErr = c.call(ctx, req)
		return callErr
	})
	return reply, err
}

// withRetry runs fn up to the configured number of attempts, doubling the
// backoff between attempts. A Retry-After hint from the server overrides
// the schedule; permanent API errors stop immediately.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.retry.InitialBackoff
	var lastErr error

	for attempt := 0; attempt < c.retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			if c.onRetry != nil {
				c.onRetry()
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
			if delay > c.retry.MaxBackoff {
				delay = c.retry.MaxBackoff
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) {
			if !apiErr.Retryable() {
				return lastErr
			}
			if apiErr.RetryAfter > 0 {
				delay = apiErr.RetryAfter
			}
		}
	}
	return lastErr
}

func (c *Client) call(ctx context.Context, req ports.CompletionRequest) (string, error) {
	payload := map[string]any{
		"model":      req.Model,
		"max_tokens": req.MaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.System != "" {
		payload["system"] = req.System
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal anthropic payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp)
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic: response has no text content")
}

func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var parsed struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		apiErr.Type = parsed.Error.Type
		apiErr.Message = parsed.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}

	return apiErr
}
