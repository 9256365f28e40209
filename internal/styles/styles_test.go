package styles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePresets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewLibrary_BuiltinsOnly(t *testing.T) {
	lib, err := NewLibrary("")
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}

	for _, name := range []string{"report", "letter", "memo", "print"} {
		if _, ok := lib.Get(name); !ok {
			t.Errorf("builtin preset %q missing", name)
		}
	}

	prefs, _ := lib.Get("report")
	if prefs["name"] != "Georgia" {
		t.Errorf("report font = %v", prefs["name"])
	}
	if prefs["title_alignment"] != "center" {
		t.Errorf("report title alignment = %v", prefs["title_alignment"])
	}
}

func TestNewLibrary_MissingFileIsFine(t *testing.T) {
	lib, err := NewLibrary(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	if _, ok := lib.Get("report"); !ok {
		t.Error("builtins lost when file is missing")
	}
}

func TestNewLibrary_FileAddsAndOverrides(t *testing.T) {
	path := writePresets(t, `
[presets.contract]
name = "Garamond"
size = 11
line_spacing = 2.0

[presets.report]
name = "Cambria"
`)
	lib, err := NewLibrary(path)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}

	contract, ok := lib.Get("contract")
	if !ok {
		t.Fatal("file preset not loaded")
	}
	if contract["name"] != "Garamond" || contract["size"] != int64(11) || contract["line_spacing"] != 2.0 {
		t.Errorf("contract = %v", contract)
	}

	report, _ := lib.Get("report")
	if report["name"] != "Cambria" {
		t.Errorf("file did not override builtin: %v", report["name"])
	}
	if _, ok := report["size"]; ok {
		t.Error("override merged with builtin instead of replacing it")
	}
}

func TestNewLibrary_InvalidTOML(t *testing.T) {
	path := writePresets(t, `[presets.broken`)
	_, err := NewLibrary(path)
	if !errors.Is(err, ErrInvalidPresets) {
		t.Errorf("error = %v, want ErrInvalidPresets", err)
	}
}

func TestNewLibrary_RejectsNonScalarValues(t *testing.T) {
	path := writePresets(t, `
[presets.weird]
name = ["an", "array"]
`)
	_, err := NewLibrary(path)
	if !errors.Is(err, ErrBadPresetValue) {
		t.Errorf("error = %v, want ErrBadPresetValue", err)
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	lib, err := NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := lib.Get("  Report "); !ok {
		t.Error("lookup is not case-insensitive or does not trim")
	}
	if _, ok := lib.Get("no-such-preset"); ok {
		t.Error("unknown preset found")
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	lib, err := NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	first, _ := lib.Get("memo")
	first["name"] = "Wingdings"

	second, _ := lib.Get("memo")
	if second["name"] != "Arial" {
		t.Errorf("library mutated through a returned preset: %v", second["name"])
	}
}

func TestNames_Sorted(t *testing.T) {
	lib, err := NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	names := lib.Names()
	if len(names) < 4 {
		t.Fatalf("names = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestPresetMergesUnderExtracted(t *testing.T) {
	lib, err := NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	preset, _ := lib.Get("report")
	merged := preset.Merge(map[string]any{"size": 14})

	if merged["size"] != 14 {
		t.Errorf("extracted preference did not win: %v", merged["size"])
	}
	if merged["name"] != "Georgia" {
		t.Errorf("preset preference lost: %v", merged["name"])
	}
}
