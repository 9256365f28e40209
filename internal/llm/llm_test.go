package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAnthropicClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing API key",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "defaults filled in",
			cfg:     Config{APIKey: "sk-ant-test123"},
			wantErr: false,
		},
		{
			name: "explicit configuration",
			cfg: Config{
				APIKey:     "sk-ant-test123",
				Model:      "claude-3-5-haiku-20241022",
				BaseURL:    "http://localhost:9999",
				MaxTokens:  256,
				Timeout:    5 * time.Second,
				MaxRetries: 1,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newAnthropicClient(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("newAnthropicClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if c.model == "" || c.baseURL == "" || c.maxTokens <= 0 {
				t.Errorf("defaults not applied: %+v", c)
			}
			if c.Provider() != ProviderAnthropic {
				t.Errorf("Provider() = %q", c.Provider())
			}
		})
	}
}

func TestNewOpenAIClient(t *testing.T) {
	if _, err := newOpenAIClient(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}

	c, err := newOpenAIClient(Config{APIKey: "sk-test123"})
	if err != nil {
		t.Fatalf("newOpenAIClient() error = %v", err)
	}
	if c.model != defaultOpenAIModel {
		t.Errorf("model = %q, want %q", c.model, defaultOpenAIModel)
	}
	if c.Provider() != ProviderOpenAI {
		t.Errorf("Provider() = %q", c.Provider())
	}
}

func TestAnthropicClient_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") == "" {
			t.Error("missing X-API-Key header")
		}
		if r.Header.Get("Anthropic-Version") != "2023-06-01" {
			t.Error("missing or incorrect Anthropic-Version header")
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "word"}],
			"model": "claude-3-5-sonnet-20241022",
			"stop_reason": "end_turn"
		}`))
	}))
	defer server.Close()

	c, err := newAnthropicClient(Config{APIKey: "sk-ant-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Invoke(context.Background(), "what kind?")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "word" {
		t.Errorf("Invoke() = %q, want %q", got, "word")
	}
}

func TestAnthropicClient_InvokeStructured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		// The model answer wraps the JSON in a markdown fence.
		_, _ = w.Write([]byte(`{
			"content": [{"type": "text", "text": "` + "```json\\n{\\\"export_intent\\\": true, \\\"document_kind\\\": \\\"pdf\\\"}\\n```" + `"}]
		}`))
	}))
	defer server.Close()

	c, err := newAnthropicClient(Config{APIKey: "sk-ant-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		ExportIntent bool   `json:"export_intent"`
		DocumentKind string `json:"document_kind"`
	}
	schema := Schema{Name: "classification", Definition: []byte(`{"type":"object"}`)}
	if err := c.InvokeStructured(context.Background(), "classify this", schema, &out); err != nil {
		t.Fatalf("InvokeStructured() error = %v", err)
	}
	if !out.ExportIntent || out.DocumentKind != "pdf" {
		t.Errorf("decoded = %+v", out)
	}
}

func TestOpenAIClient_Invoke(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test123" {
			t.Error("missing Authorization header")
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "pdf"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	c, err := newOpenAIClient(Config{APIKey: "sk-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Invoke(context.Background(), "what kind?")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "pdf" {
		t.Errorf("Invoke() = %q, want %q", got, "pdf")
	}
}

func TestOpenAIClient_InvokeStructuredSendsSchema(t *testing.T) {
	var sawSchema atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `"response_format"`) &&
			strings.Contains(string(body), `"json_schema"`) &&
			strings.Contains(string(body), `"classification"`) {
			sawSchema.Store(true)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"document_kind\": \"word\"}"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	c, err := newOpenAIClient(Config{APIKey: "sk-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		DocumentKind string `json:"document_kind"`
	}
	schema := Schema{Name: "classification", Definition: []byte(`{"type":"object"}`)}
	if err := c.InvokeStructured(context.Background(), "classify", schema, &out); err != nil {
		t.Fatalf("InvokeStructured() error = %v", err)
	}
	if !sawSchema.Load() {
		t.Error("request did not carry the json_schema response format")
	}
	if out.DocumentKind != "word" {
		t.Errorf("decoded kind = %q", out.DocumentKind)
	}
}

func TestAnthropicClient_RetriesOn429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "ok"}]}`))
	}))
	defer server.Close()

	c, err := newAnthropicClient(Config{APIKey: "sk-ant-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Invoke(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Invoke() = %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestOpenAIClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	c, err := newOpenAIClient(Config{APIKey: "sk-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Invoke(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 400)", calls.Load())
	}
}

func TestAnthropicClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := newAnthropicClient(Config{APIKey: "sk-ant-test123", BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Invoke(ctx, "prompt"); err == nil {
		t.Fatal("expected error after context timeout")
	}
}

func TestNewOllamaClient(t *testing.T) {
	c, err := newOllamaClient(Config{})
	if err != nil {
		t.Fatalf("newOllamaClient() error = %v", err)
	}
	if c.Provider() != ProviderOllama {
		t.Errorf("Provider() = %q", c.Provider())
	}
	if c.maxTokens != defaultMaxTokens {
		t.Errorf("maxTokens = %d", c.maxTokens)
	}
}
