package artifact

import "strings"

// extensions maps document kinds to artifact file extensions. Kinds
// outside the map get a plain text extension rather than an error, so
// an unexpected kind still yields an openable file.
var extensions = map[string]string{
	"word":  ".docx",
	"pdf":   ".pdf",
	"excel": ".xlsx",
	"csv":   ".csv",
	"json":  ".json",
}

// ExtensionFor returns the file extension for a document kind.
func ExtensionFor(kind string) string {
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return ext
	}
	return ".txt"
}
