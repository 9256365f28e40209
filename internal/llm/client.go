// Package llm provides the model-call layer for the export pipeline.
//
// A Client sends one prompt and returns one completion; the structured
// variant decodes a JSON answer into a caller-supplied value. Provider
// selection, credentials and endpoints are configuration. All clients
// rate-limit themselves and retry transient failures with exponential
// backoff, so callers see either a final answer or a final error.
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Default configuration values.
const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultOpenAIModel      = "gpt-4o-mini"
	defaultOllamaBaseURL    = "http://localhost:11434"
	defaultOllamaModel      = "llama3.1"
	defaultMaxTokens        = 1024
	defaultTimeout          = 60 * time.Second
	defaultMaxRetries       = 3
	defaultBaseBackoff      = 1 * time.Second
)

// Rate limiter defaults: 50 requests per minute across providers.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5
)

// Config selects and tunes a provider client. Zero fields fall back
// to the provider defaults above.
type Config struct {
	// Provider is openai, anthropic or ollama. Empty means detect
	// from the environment.
	Provider string

	Model      string
	APIKey     string
	BaseURL    string
	MaxTokens  int
	Timeout    time.Duration
	MaxRetries int
}

// Schema describes the JSON shape a structured invocation must
// return. Definition is a JSON Schema document.
type Schema struct {
	Name       string
	Definition json.RawMessage
}

// Client is one conversation turn against a model provider.
type Client interface {
	// Invoke sends a prompt and returns the completion text.
	Invoke(ctx context.Context, prompt string) (string, error)

	// InvokeStructured sends a prompt that must be answered with JSON
	// matching schema, and decodes the answer into out.
	InvokeStructured(ctx context.Context, prompt string, schema Schema, out any) error

	// Provider reports which backend serves this client.
	Provider() string
}
