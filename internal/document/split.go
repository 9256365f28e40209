package document

import "strings"

// maxTitleLen caps the title drawn from the first content line.
const maxTitleLen = 100

// Split is source text divided into a title and body paragraphs.
type Split struct {
	// Title is the first non-empty line, truncated to 100 characters.
	// Empty when the source has no content.
	Title string

	// Paragraphs are the remaining text blocks, separated in the
	// source by blank lines. Single newlines inside a block survive
	// as line breaks within the paragraph.
	Paragraphs []string
}

// SplitContent divides raw text into a title line and its body
// paragraphs.
func SplitContent(text string) Split {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	titleIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			titleIdx = i
			break
		}
	}
	if titleIdx < 0 {
		return Split{}
	}

	title := strings.TrimSpace(lines[titleIdx])
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen])
	}

	var (
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range lines[titleIdx+1:] {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()

	return Split{Title: title, Paragraphs: paragraphs}
}
