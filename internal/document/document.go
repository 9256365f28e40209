// Package document holds the formatting engine shared by all renderers:
// the document kind enum, sparse formatting preferences, the property
// registries that map preference keys onto typed setters, and the
// content splitter that turns raw text into a title and body paragraphs.
//
// Renderer implementations live in the docx and pdf subpackages. Both
// consume the same resolved formatting plan and allocator contract, so
// the workflow controller can treat them interchangeably.
package document

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Kind identifies the target document format.
type Kind string

const (
	KindWord Kind = "word"
	KindPDF  Kind = "pdf"
)

// ParseKind normalizes a kind string. Anything that is not exactly
// word or pdf resolves to word, so an off-script classifier answer
// still produces a usable document.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindPDF):
		return KindPDF
	case string(KindWord):
		return KindWord
	default:
		return KindWord
	}
}

func (k Kind) String() string {
	return string(k)
}

// Preferences is the sparse formatting map produced by the extractor.
// Only properties the user explicitly asked for are present; absence
// means "use the built-in default". Keys may carry a scope prefix
// (title_, page_) to target a single scope.
type Preferences map[string]any

// Normalize returns a non-nil map, leaving existing entries alone.
func (p Preferences) Normalize() Preferences {
	if p == nil {
		return Preferences{}
	}
	return p
}

// Merge returns a copy of p with overlay entries layered on top.
// Overlay values win on key collision. Neither input is modified.
func (p Preferences) Merge(overlay Preferences) Preferences {
	out := make(Preferences, len(p)+len(overlay))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// Scope names the part of the document a property applies to.
type Scope string

const (
	ScopeBody  Scope = "body"
	ScopeTitle Scope = "title"
	ScopePage  Scope = "page"
)

// Prefix returns the preference-key prefix that targets this scope,
// or "" for the body scope, which takes bare keys.
func (s Scope) Prefix() string {
	switch s {
	case ScopeTitle:
		return "title_"
	case ScopePage:
		return "page_"
	default:
		return ""
	}
}

// PropertyFailure records one preference that was recognized but could
// not be applied. The render continues without it.
type PropertyFailure struct {
	Scope Scope
	Key   string
	Err   error
}

func (f PropertyFailure) Error() string {
	return fmt.Sprintf("property %s (%s scope): %v", f.Key, f.Scope, f.Err)
}

func (f PropertyFailure) Unwrap() error {
	return f.Err
}

// Allocator hands out unique, exclusively-created artifact files.
// Implementations guarantee that two concurrent calls never return the
// same path.
type Allocator interface {
	// Create opens a fresh artifact file for the given kind. The name
	// overrides the configured base name when non-empty. The caller
	// owns the file and must close it.
	Create(kind string, name string) (*os.File, error)
}

// RenderInput carries everything a renderer needs for one document.
type RenderInput struct {
	// Content is the full source text, title line included.
	Content string

	// Name overrides the artifact base name when non-empty.
	Name string

	// Preferences is the sparse formatting map. May be nil.
	Preferences Preferences
}

// RenderResult reports a completed render.
type RenderResult struct {
	// Path is the artifact location on disk.
	Path string

	// Skipped lists recognized properties that failed to apply.
	Skipped []PropertyFailure
}

// Renderer turns text plus preferences into a persisted artifact.
// A non-nil error means no artifact exists; partially-written files
// are removed before returning.
type Renderer interface {
	Render(ctx context.Context, in RenderInput) (*RenderResult, error)
}
