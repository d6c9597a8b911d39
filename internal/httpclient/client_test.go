package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL:     baseURL,
		AuthHeader:  "Authorization",
		AuthValue:   "test-key",
		MaxAttempts: 3,
		Backoff:     NoBackoff,
	})
}

func TestClient_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Expected auth header 'test-key', got '%s'", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("Expected limit=5, got '%s'", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw, err := client.Get(context.Background(), "/things", url.Values{"limit": {"5"}})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !parsed.OK {
		t.Error("Expected ok=true in response")
	}
}

func TestClient_Post_SendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if body["name"] != "Sol Ring" {
			t.Errorf("Expected name 'Sol Ring', got %v", body["name"])
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Post(context.Background(), "/cards", map[string]string{"name": "Sol Ring"}); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
}

func TestClient_RetriesNon2xxThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Get(context.Background(), "/flaky", nil); err != nil {
		t.Fatalf("Expected success on third attempt, got: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 attempts, got %d", got)
	}
}

func TestClient_ExhaustionReturnsTypedError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Get(context.Background(), "/down", nil)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}

	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected *ExhaustedError, got %T: %v", err, err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Expected 3 attempts in error, got %d", exhausted.Attempts)
	}
	if exhausted.Last == nil {
		t.Error("Expected last underlying error to be set")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("Expected 3 calls, got %d", got)
	}
}

func TestClient_MalformedJSONNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Get(context.Background(), "/weird", nil)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *DecodeError, got %T: %v", err, err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("Malformed response should not retry, got %d calls", got)
	}
}

func TestClient_ContextCancelAbortsBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(Config{
		BaseURL: server.URL,
		Backoff: func(int) time.Duration { return time.Hour },
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.Get(ctx, "/slow", nil)
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Cancel should abort the backoff wait, took %v", elapsed)
	}
}

func TestExponentialBackoff(t *testing.T) {
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	for i, expected := range want {
		if got := ExponentialBackoff(i + 1); got != expected {
			t.Errorf("ExponentialBackoff(%d) = %v, want %v", i+1, got, expected)
		}
	}
}
