// Package artifact manages export artifacts on disk: allocating
// collision-free destination files, verifying finished documents and
// handing them to the desktop opener.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/docforge/internal/document"
)

// timestampLayout stamps artifact filenames down to the second.
// Collisions inside one second fall back to a random disambiguator.
const timestampLayout = "2006-01-02_15-04-05"

// createAttempts bounds the exclusive-create retry loop.
const createAttempts = 3

// Store allocates artifact files under a single export directory.
type Store struct {
	dir  string
	base string
}

var _ document.Allocator = (*Store)(nil)

// NewStore creates the export directory if needed and returns a store
// writing into it. base is the default filename stem, used when a
// request does not carry its own name.
func NewStore(dir, base string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if base == "" {
		base = "export"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Store{dir: dir, base: base}, nil
}

// Dir returns the export directory.
func (s *Store) Dir() string {
	return s.dir
}

// Create opens a fresh artifact file for the given kind, exclusively,
// so concurrent exports never overwrite each other. The name argument
// overrides the configured base when non-empty.
func (s *Store) Create(kind string, name string) (*os.File, error) {
	base := s.base
	if name != "" {
		base = sanitizeBase(name)
	}
	ext := ExtensionFor(kind)
	stamp := time.Now().Format(timestampLayout)

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s%s", base, stamp, ext))
	for attempt := 0; attempt < createAttempts; attempt++ {
		if attempt > 0 {
			suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
			path = filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s%s", base, stamp, suffix, ext))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create artifact %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("create artifact: no free filename after %d attempts", createAttempts)
}

var unsafeBaseChars = regexp.MustCompile(`[^a-zA-Z0-9._ -]+`)

// sanitizeBase reduces a caller-supplied name to a safe filename stem.
// Path separators and control characters never reach the filesystem.
func sanitizeBase(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeBaseChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, ". -")
	if name == "" {
		return "export"
	}
	const maxBaseLen = 64
	if len(name) > maxBaseLen {
		name = name[:maxBaseLen]
	}
	return name
}
