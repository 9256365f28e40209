package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/docforge/internal/document"
	"github.com/fyrsmithlabs/docforge/internal/llm"
)

// The extraction answer is an open map: the renderer registries filter
// unknown keys, so the schema only pins the value shapes.
var extractionSchema = llm.Schema{
	Name: "formatting",
	Definition: json.RawMessage(`{
  "type": "object",
  "additionalProperties": {"type": ["string", "number", "boolean"]}
}`),
}

// Extractor pulls explicitly requested formatting properties out of an
// instruction. Properties the user did not mention are absent from the
// result, never defaulted.
type Extractor struct {
	client  llm.Client
	prompts *llm.Prompts
}

func NewExtractor(client llm.Client, prompts *llm.Prompts) *Extractor {
	return &Extractor{client: client, prompts: prompts}
}

// Extract reads the instruction. The kind biases which property
// vocabulary the model is offered; margins only mean something for pdf.
func (e *Extractor) Extract(ctx context.Context, instruction string, kind document.Kind) (document.Preferences, error) {
	prompt, err := e.prompts.Extract(instruction, string(kind))
	if err != nil {
		return nil, fmt.Errorf("render extract prompt: %w", err)
	}

	var prefs map[string]any
	if err := e.client.InvokeStructured(ctx, prompt, extractionSchema, &prefs); err != nil {
		return nil, fmt.Errorf("extract formatting: %w", err)
	}
	return document.Preferences(prefs).Normalize(), nil
}
