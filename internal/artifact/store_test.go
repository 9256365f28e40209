package artifact

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "export")
	require.NoError(t, err)
	return s
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")

	s, err := NewStore(dir, "export")

	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_RequiresDirectory(t *testing.T) {
	_, err := NewStore("", "export")
	assert.Error(t, err)
}

func TestStore_Create_FilenameShape(t *testing.T) {
	s := newTestStore(t)

	f, err := s.Create("word", "")
	require.NoError(t, err)
	defer f.Close()

	pattern := regexp.MustCompile(`^export_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.docx$`)
	assert.Regexp(t, pattern, filepath.Base(f.Name()))
}

func TestStore_Create_NameOverride(t *testing.T) {
	s := newTestStore(t)

	f, err := s.Create("pdf", "Board Report")
	require.NoError(t, err)
	defer f.Close()

	base := filepath.Base(f.Name())
	assert.True(t, len(base) > 0)
	assert.Regexp(t, `^Board Report_.*\.pdf$`, base)
}

func TestStore_Create_SanitizesName(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name       string
		wantPrefix string
	}{
		{"../../etc/passwd", "passwd_"},
		{"weird$$name", "weird-name_"},
		{"...", "export_"},
		{"  ", "export_"},
	}

	for _, tt := range tests {
		f, err := s.Create("word", tt.name)
		require.NoError(t, err, tt.name)
		f.Close()

		base := filepath.Base(f.Name())
		assert.Regexp(t, "^"+regexp.QuoteMeta(tt.wantPrefix), base)
		// Nothing escapes the export directory.
		assert.Equal(t, s.Dir(), filepath.Dir(f.Name()))
	}
}

func TestStore_Create_DistinctPathsWithinOneSecond(t *testing.T) {
	s := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		f, err := s.Create("word", "")
		require.NoError(t, err)
		require.False(t, seen[f.Name()], "duplicate path %s", f.Name())
		seen[f.Name()] = true
		f.Close()
	}
	assert.Len(t, seen, 5)
}

func TestStore_Create_ConcurrentRunsGetDistinctPaths(t *testing.T) {
	s := newTestStore(t)

	const runs = 10
	paths := make(chan string, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := s.Create("word", "")
			if err != nil {
				t.Error(err)
				return
			}
			_, _ = f.WriteString("content")
			_ = f.Close()
			paths <- f.Name()
		}()
	}
	wg.Wait()
	close(paths)

	seen := make(map[string]bool)
	for p := range paths {
		assert.False(t, seen[p], "path %s allocated twice", p)
		seen[p] = true
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	assert.Len(t, seen, runs)
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"word", ".docx"},
		{"pdf", ".pdf"},
		{"excel", ".xlsx"},
		{"csv", ".csv"},
		{"json", ".json"},
		{"Word", ".docx"},
		{" PDF ", ".pdf"},
		{"markdown", ".txt"},
		{"", ".txt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtensionFor(tt.kind), "kind %q", tt.kind)
	}
}

func TestSanitizeBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report", "report"},
		{"My Report 2026", "My Report 2026"},
		{"a/b/c", "c"},
		{"bad|chars<here>", "bad-chars-here"},
		{"....", "export"},
		{"", "export"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeBase(tt.in), "input %q", tt.in)
	}
}
