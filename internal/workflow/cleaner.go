package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/docforge/internal/llm"
)

// Cleaner strips conversational wrapper from source text before it is
// rendered: greetings, follow-up questions, offers of further help.
//
// The text is scrubbed for secrets before it leaves the process, so
// redaction markers can surface in cleaned output. Credentials pasted
// into a source document never reach the model API.
type Cleaner struct {
	client  llm.Client
	prompts *llm.Prompts
}

func NewCleaner(client llm.Client, prompts *llm.Prompts) *Cleaner {
	return &Cleaner{client: client, prompts: prompts}
}

// Clean returns the rewritten text. An empty model answer is an error:
// cleaning must never drop the content it was asked to preserve.
func (c *Cleaner) Clean(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt, err := c.prompts.Clean(llm.ScrubSecrets(text))
	if err != nil {
		return "", fmt.Errorf("render clean prompt: %w", err)
	}

	cleaned, err := c.client.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("clean source text: %w", err)
	}
	if strings.TrimSpace(cleaned) == "" {
		return "", errors.New("cleaner returned empty text")
	}
	return cleaned, nil
}
