package workflow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fyrsmithlabs/docforge/internal/document"
	"github.com/fyrsmithlabs/docforge/internal/llm"
)

var classificationSchema = llm.Schema{
	Name: "classification",
	Definition: json.RawMessage(`{
  "type": "object",
  "properties": {
    "export_intent": {"type": "boolean"},
    "document_kind": {"type": "string", "enum": ["word", "pdf"]},
    "reasoning": {"type": "string"}
  },
  "required": ["export_intent", "document_kind"],
  "additionalProperties": false
}`),
}

// Classification is the analyzed reading of an instruction.
type Classification struct {
	ExportIntent bool
	Kind         document.Kind
	Reasoning    string
}

// Classifier decides whether an instruction asks for an export and
// which document kind it targets.
type Classifier struct {
	client  llm.Client
	prompts *llm.Prompts
}

func NewClassifier(client llm.Client, prompts *llm.Prompts) *Classifier {
	return &Classifier{client: client, prompts: prompts}
}

// Classify reads the instruction. A kind the model invents is coerced
// to word; errors are left to the caller, which owns the fallback.
func (c *Classifier) Classify(ctx context.Context, instruction string) (Classification, error) {
	prompt, err := c.prompts.Classify(instruction)
	if err != nil {
		return Classification{}, fmt.Errorf("render classify prompt: %w", err)
	}

	var wire struct {
		ExportIntent bool   `json:"export_intent"`
		DocumentKind string `json:"document_kind"`
		Reasoning    string `json:"reasoning"`
	}
	if err := c.client.InvokeStructured(ctx, prompt, classificationSchema, &wire); err != nil {
		return Classification{}, fmt.Errorf("classify instruction: %w", err)
	}

	return Classification{
		ExportIntent: wire.ExportIntent,
		Kind:         document.ParseKind(wire.DocumentKind),
		Reasoning:    wire.Reasoning,
	}, nil
}
