package llm

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/tyler-sommer/stick"
)

//go:embed prompts/*.twig
var promptFS embed.FS

// Prompts renders the pipeline's prompt templates. Templates are
// embedded Twig files keyed by basename, so the prompt text can be
// tuned without touching the callers.
type Prompts struct {
	env       *stick.Env
	templates map[string]string
}

// NewPrompts loads every embedded template.
func NewPrompts() (*Prompts, error) {
	p := &Prompts{
		env:       stick.New(nil),
		templates: make(map[string]string),
	}
	err := fs.WalkDir(promptFS, "prompts", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".twig") {
			return nil
		}
		content, readErr := fs.ReadFile(promptFS, path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
		tag := strings.TrimSuffix(filepath.Base(path), ".twig")
		p.templates[tag] = string(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}
	return p, nil
}

// Render executes the named template with the given variables.
func (p *Prompts) Render(tag string, vars map[string]stick.Value) (string, error) {
	tpl, ok := p.templates[tag]
	if !ok {
		return "", fmt.Errorf("prompt template %q not found", tag)
	}
	var out strings.Builder
	if err := p.env.Execute(tpl, &out, vars); err != nil {
		return "", fmt.Errorf("execute %q: %w", tag, err)
	}
	return out.String(), nil
}

// Classify renders the intent-and-kind classification prompt.
func (p *Prompts) Classify(instruction string) (string, error) {
	return p.Render("classify", map[string]stick.Value{
		"instruction": instruction,
	})
}

// Clean renders the content-cleaning prompt.
func (p *Prompts) Clean(text string) (string, error) {
	return p.Render("clean", map[string]stick.Value{
		"text": text,
	})
}

// Extract renders the formatting-extraction prompt. The kind biases
// which property vocabulary the model is told about.
func (p *Prompts) Extract(instruction, kind string) (string, error) {
	return p.Render("extract", map[string]stick.Value{
		"instruction": instruction,
		"kind":        kind,
	})
}
