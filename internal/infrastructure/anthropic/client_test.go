package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsScreener/internal/config"
	"NewsScreener/internal/ports"
)

func testConfig(baseURL string) config.AnthropicConfig {
	return config.AnthropicConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Version: "2023-06-01",
		Retry: config.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     4 * time.Millisecond,
		},
	}
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("missing version header")
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("unexpected model %v", body["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "  scored  "}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	reply, err := client.Complete(context.Background(), ports.CompletionRequest{
		Model: "test-model", Prompt: "rate this", MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if reply != "scored" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
}

func TestCompleteRetriesRateLimit(t *testing.T) {
	t.Parallel()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
			return
		}
		w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	reply, err := client.Complete(context.Background(), ports.CompletionRequest{Model: "m", Prompt: "p", MaxTokens: 10})
	if err != nil {
		t.Fatalf("Complete returned error after retries: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestCompleteStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "bad prompt"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Complete(context.Background(), ports.CompletionRequest{Model: "m", Prompt: "p", MaxTokens: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("permanent error must not retry, got %d attempts", attempts)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Type != "invalid_request_error" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.Retryable() {
		t.Fatal("400 must not be retryable")
	}
}

func TestCompleteRetriesServerError(t *testing.T) {
	t.Parallel()

	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.Complete(context.Background(), ports.CompletionRequest{Model: "m", Prompt: "p", MaxTokens: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts for 500s, got %d", attempts)
	}
}

func TestCompleteMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewClient(config.AnthropicConfig{BaseURL: "http://localhost:0"})
	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Model: "m", Prompt: "p"}); err == nil {
		t.Fatal("expected misconfiguration error without api key")
	}
}

func TestCompleteRequiresModel(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig("http://localhost:0"))
	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Prompt: "p"}); err == nil {
		t.Fatal("expected error without model")
	}
}
