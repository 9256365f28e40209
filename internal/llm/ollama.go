package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/time/rate"
)

// ollamaClient runs prompts against a local Ollama server through
// langchaingo. No retry loop: the server is local, so failures are
// configuration problems that retrying will not fix.
type ollamaClient struct {
	llm       *ollama.LLM
	maxTokens int
	limiter   *rate.Limiter
}

var _ Client = (*ollamaClient)(nil)

func newOllamaClient(cfg Config) (*ollamaClient, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	client, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	return &ollamaClient{
		llm:       client,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}, nil
}

func (o *ollamaClient) Provider() string {
	return ProviderOllama
}

func (o *ollamaClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt,
		llms.WithMaxTokens(o.maxTokens),
		llms.WithTemperature(0.1),
	)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return out, nil
}

func (o *ollamaClient) InvokeStructured(ctx context.Context, prompt string, schema Schema, out any) error {
	full := prompt + "\n\n" + structuredInstruction(schema)
	content, err := o.Invoke(ctx, full)
	if err != nil {
		return err
	}
	return decodeJSON(content, out)
}
