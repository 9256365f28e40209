package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanJSONResponse strips the markdown fences models like to wrap
// around JSON answers.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// decodeJSON parses a model answer into out, tolerating fences and
// surrounding prose around the JSON object.
func decodeJSON(content string, out any) error {
	cleaned := cleanJSONResponse(content)

	firstErr := json.Unmarshal([]byte(cleaned), out)
	if firstErr == nil {
		return nil
	}

	// Some models narrate before or after the object. Try the
	// outermost braces before giving up.
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("response is not valid JSON: %w", firstErr)
}

// structuredInstruction appends the schema contract to a prompt for
// providers without native structured output.
func structuredInstruction(schema Schema) string {
	return fmt.Sprintf(
		"Respond ONLY with a JSON object matching this JSON Schema. No markdown, no additional text.\n\nSchema %q:\n%s",
		schema.Name, string(schema.Definition),
	)
}
