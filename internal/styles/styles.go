// Package styles provides named formatting preset bundles.
//
// A preset is a bag of formatting preferences under a name, so an
// instruction like "export this as a report" can pull in a whole look
// without spelling out every property. Built-in presets ship with the
// binary; a TOML file can add to or override them.
package styles

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fyrsmithlabs/docforge/internal/document"
)

var (
	// ErrInvalidPresets indicates a presets file could not be parsed.
	ErrInvalidPresets = errors.New("invalid presets file")

	// ErrBadPresetValue indicates a preset property has a value type
	// that cannot map onto a document property.
	ErrBadPresetValue = errors.New("bad preset value")
)

// Library resolves preset names to preference bundles. Lookups are
// case-insensitive.
type Library struct {
	presets map[string]document.Preferences
}

// NewLibrary builds a library from the built-in presets plus the given
// TOML file. An empty path or a missing file leaves only the built-ins;
// a file that exists but cannot be parsed is an error. File presets
// override built-ins with the same name.
func NewLibrary(path string) (*Library, error) {
	lib := &Library{presets: make(map[string]document.Preferences)}
	for name, prefs := range builtinPresets {
		lib.presets[strings.ToLower(name)] = prefs
	}

	if path == "" {
		return lib, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("stat presets file: %w", err)
	}

	loaded, err := loadPresetsFile(path)
	if err != nil {
		return nil, err
	}
	for name, prefs := range loaded {
		lib.presets[strings.ToLower(name)] = prefs
	}
	return lib, nil
}

// Get returns a copy of the named preset's preferences.
func (l *Library) Get(name string) (document.Preferences, bool) {
	prefs, ok := l.presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	out := make(document.Preferences, len(prefs))
	for k, v := range prefs {
		out[k] = v
	}
	return out, true
}

// Names lists the available preset names, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadPresetsFile(path string) (map[string]document.Preferences, error) {
	var file struct {
		Presets map[string]map[string]any `toml:"presets"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPresets, path, err)
	}

	out := make(map[string]document.Preferences, len(file.Presets))
	for name, raw := range file.Presets {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %s: preset with empty name", ErrInvalidPresets, path)
		}
		prefs := make(document.Preferences, len(raw))
		for key, value := range raw {
			switch value.(type) {
			case string, bool, int64, float64:
				prefs[key] = value
			default:
				return nil, fmt.Errorf("%w: preset %q property %q has type %T, want string, number or bool",
					ErrBadPresetValue, name, key, value)
			}
		}
		out[name] = prefs
	}
	return out, nil
}
