package document

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Registry maps preference keys to typed setters for one scope's
// property struct. Each renderer defines one registry per scope; a key
// missing from the registry is simply not a property of that scope.
type Registry[P any] map[string]func(*P, any) error

// scopePrefixes are the recognized key prefixes. A key carrying one of
// these is scoped and never treated as a bare body-or-page key.
var scopePrefixes = []string{"title_", "page_"}

func hasScopePrefix(key string) bool {
	for _, p := range scopePrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// Resolve layers preferences onto defaults for one scope and returns
// the resolved property struct.
//
// Layering order: built-in defaults, then bare keys the scope's
// registry recognizes, then prefix-qualified keys for this scope,
// which win over same-named bare keys. The title scope is the
// exception: bare keys never reach it, so an unprefixed fontSize
// restyles the body while the heading keeps its default; only
// title_ keys touch the title. Keys unknown to the registry are
// ignored without error. A recognized key whose value cannot be
// applied is skipped and reported as a PropertyFailure; the remaining
// properties still resolve.
func Resolve[P any](scope Scope, defaults P, reg Registry[P], prefs Preferences) (P, []PropertyFailure) {
	out := defaults
	var failures []PropertyFailure

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if scope != ScopeTitle {
		for _, k := range keys {
			if hasScopePrefix(k) {
				continue
			}
			set, ok := reg[k]
			if !ok {
				continue
			}
			if err := set(&out, prefs[k]); err != nil {
				failures = append(failures, PropertyFailure{Scope: scope, Key: k, Err: err})
			}
		}
	}

	prefix := scope.Prefix()
	if prefix == "" {
		return out, failures
	}
	for _, k := range keys {
		bare, found := strings.CutPrefix(k, prefix)
		if !found {
			continue
		}
		set, ok := reg[bare]
		if !ok {
			continue
		}
		if err := set(&out, prefs[k]); err != nil {
			failures = append(failures, PropertyFailure{Scope: scope, Key: k, Err: err})
		}
	}
	return out, failures
}

// AsString coerces a preference value to a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty string")
	}
	return s, nil
}

// AsNumber coerces a preference value to a float64. JSON decoding
// yields float64, but extractors sometimes return quoted numerals, so
// numeric strings are accepted too.
func AsNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// AsBool coerces a preference value to a bool, accepting the usual
// string spellings.
func AsBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(b)))
		if err != nil {
			return false, fmt.Errorf("expected bool, got %q", b)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("expected bool, got %T", v)
	}
}

// Alignment values accepted across all scopes.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// AsAlignment coerces a preference value to one of the four alignment
// names.
func AsAlignment(v any) (string, error) {
	s, err := AsString(v)
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)
	switch s {
	case AlignLeft, AlignCenter, AlignRight, AlignJustify:
		return s, nil
	default:
		return "", fmt.Errorf("unknown alignment %q", s)
	}
}

// AsPositiveNumber coerces to a float64 and rejects values outside
// (0, max].
func AsPositiveNumber(v any, max float64) (float64, error) {
	n, err := AsNumber(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > max {
		return 0, fmt.Errorf("value %v out of range (0, %v]", n, max)
	}
	return n, nil
}

// AsNonNegativeNumber coerces to a float64 and rejects values outside
// [0, max].
func AsNonNegativeNumber(v any, max float64) (float64, error) {
	n, err := AsNumber(v)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("value %v out of range [0, %v]", n, max)
	}
	return n, nil
}
