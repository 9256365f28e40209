package llm

import (
	"strings"
	"testing"
)

func newTestPrompts(t *testing.T) *Prompts {
	t.Helper()
	p, err := NewPrompts()
	if err != nil {
		t.Fatalf("NewPrompts() error = %v", err)
	}
	return p
}

func TestNewPrompts_LoadsAllTemplates(t *testing.T) {
	p := newTestPrompts(t)
	for _, tag := range []string{"classify", "clean", "extract"} {
		if _, ok := p.templates[tag]; !ok {
			t.Errorf("template %q not loaded", tag)
		}
	}
}

func TestPrompts_Classify(t *testing.T) {
	p := newTestPrompts(t)
	got, err := p.Classify("Please save this as a PDF")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !strings.Contains(got, "Please save this as a PDF") {
		t.Errorf("prompt missing instruction: %q", got)
	}
	if !strings.Contains(got, "export_intent") || !strings.Contains(got, "document_kind") {
		t.Errorf("prompt missing decision fields: %q", got)
	}
}

func TestPrompts_Clean(t *testing.T) {
	p := newTestPrompts(t)
	got, err := p.Clean("Sure! Here is the report.\n\nRevenue grew.")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "Revenue grew.") {
		t.Errorf("prompt missing source text: %q", got)
	}
	if !strings.Contains(got, "cleaned text only") {
		t.Errorf("prompt missing output contract: %q", got)
	}
}

func TestPrompts_ExtractVocabularyFollowsKind(t *testing.T) {
	p := newTestPrompts(t)

	word, err := p.Extract("make it bold", "word")
	if err != nil {
		t.Fatalf("Extract(word) error = %v", err)
	}
	for _, want := range []string{"line_spacing", "bold", "title_alignment", "make it bold"} {
		if !strings.Contains(word, want) {
			t.Errorf("word prompt missing %q", want)
		}
	}
	if strings.Contains(word, "fontName") || strings.Contains(word, "page_leftMargin") {
		t.Error("word prompt lists pdf-only properties")
	}

	pdf, err := p.Extract("wide margins", "pdf")
	if err != nil {
		t.Fatalf("Extract(pdf) error = %v", err)
	}
	for _, want := range []string{"fontName", "fontSize", "page_leftMargin", "title_fontSize", "wide margins"} {
		if !strings.Contains(pdf, want) {
			t.Errorf("pdf prompt missing %q", want)
		}
	}
	if strings.Contains(pdf, "line_spacing") {
		t.Error("pdf prompt lists word-only properties")
	}
}

func TestPrompts_RenderUnknownTemplate(t *testing.T) {
	p := newTestPrompts(t)
	_, err := p.Render("summarize", nil)
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
}
