package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// namedColors covers the color words extractors actually produce.
var namedColors = map[string]rgb{
	"black":  {0, 0, 0},
	"white":  {255, 255, 255},
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"yellow": {255, 255, 0},
	"orange": {255, 165, 0},
	"purple": {128, 0, 128},
	"navy":   {0, 0, 128},
	"brown":  {165, 42, 42},
}

// parseColor accepts #RGB and #RRGGBB hex plus a small set of color
// names.
func parseColor(s string) (rgb, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	hex, found := strings.CutPrefix(s, "#")
	if !found {
		return rgb{}, fmt.Errorf("unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, fmt.Errorf("hex color %q must be #RGB or #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	return rgb{
		R: int(v >> 16 & 0xFF),
		G: int(v >> 8 & 0xFF),
		B: int(v & 0xFF),
	}, nil
}

// asCoreFont coerces a preference value to a PDF core font family.
func asCoreFont(v any) (string, error) {
	s, err := asLowerString(v)
	if err != nil {
		return "", err
	}
	family, ok := coreFonts[s]
	if !ok {
		return "", fmt.Errorf("font %q is not a PDF core font", s)
	}
	return family, nil
}

func asLowerString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("empty string")
	}
	return s, nil
}
