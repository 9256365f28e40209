package llm

import (
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type decision struct {
		ExportIntent bool   `json:"export_intent"`
		DocumentKind string `json:"document_kind"`
	}

	tests := []struct {
		name     string
		content  string
		wantErr  bool
		wantKind string
	}{
		{
			name:     "plain JSON",
			content:  `{"export_intent": true, "document_kind": "word"}`,
			wantKind: "word",
		},
		{
			name:     "json fence",
			content:  "```json\n{\"export_intent\": false, \"document_kind\": \"pdf\"}\n```",
			wantKind: "pdf",
		},
		{
			name:     "bare fence",
			content:  "```\n{\"export_intent\": true, \"document_kind\": \"word\"}\n```",
			wantKind: "word",
		},
		{
			name:     "surrounding prose",
			content:  "Here is the classification you asked for:\n{\"export_intent\": true, \"document_kind\": \"pdf\"}\nLet me know if you need anything else.",
			wantKind: "pdf",
		},
		{
			name:     "leading and trailing whitespace",
			content:  "  \n\t{\"export_intent\": true, \"document_kind\": \"word\"}\n  ",
			wantKind: "word",
		},
		{
			name:    "no JSON at all",
			content: "I could not determine the format.",
			wantErr: true,
		},
		{
			name:    "broken JSON",
			content: `{"export_intent": true, "document_kind":`,
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got decision
			err := decodeJSON(tt.content, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), "not valid JSON") {
					t.Errorf("error %q does not mention invalid JSON", err)
				}
				return
			}
			if got.DocumentKind != tt.wantKind {
				t.Errorf("document_kind = %q, want %q", got.DocumentKind, tt.wantKind)
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unfenced", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  \n", `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.content); got != tt.want {
				t.Errorf("cleanJSONResponse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStructuredInstruction(t *testing.T) {
	schema := Schema{Name: "formatting", Definition: []byte(`{"type":"object"}`)}
	got := structuredInstruction(schema)
	if !strings.Contains(got, `"formatting"`) {
		t.Errorf("instruction missing schema name: %q", got)
	}
	if !strings.Contains(got, `{"type":"object"}`) {
		t.Errorf("instruction missing schema body: %q", got)
	}
	if !strings.Contains(got, "ONLY") {
		t.Errorf("instruction missing exclusivity contract: %q", got)
	}
}
