package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/docforge/internal/document"
)

type dirAllocator struct {
	dir string
	n   int
}

func (a *dirAllocator) Create(kind, name string) (*os.File, error) {
	a.n++
	base := name
	if base == "" {
		base = "export"
	}
	path := filepath.Join(a.dir, fmt.Sprintf("%s_%d.pdf", base, a.n))
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

type failingAllocator struct{}

func (failingAllocator) Create(string, string) (*os.File, error) {
	return nil, errors.New("read-only filesystem")
}

func render(t *testing.T, content string, prefs document.Preferences) *document.RenderResult {
	t.Helper()
	r := NewRenderer(&dirAllocator{dir: t.TempDir()})
	res, err := r.Render(context.Background(), document.RenderInput{
		Content:     content,
		Preferences: prefs,
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestRender_PDFSignature(t *testing.T) {
	res := render(t, "Meeting Notes\n\nAttendees agreed on the plan.", nil)

	assert.True(t, strings.HasSuffix(res.Path, ".pdf"))
	assert.Empty(t, res.Skipped)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	require.Greater(t, len(data), 5)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestRender_UnknownKeysIgnored(t *testing.T) {
	prefs := document.Preferences{
		"neon_glow": true,
		"watermark": "draft",
	}

	res := render(t, "Title\n\nBody.", prefs)

	assert.Empty(t, res.Skipped)
	_, err := os.Stat(res.Path)
	assert.NoError(t, err)
}

func TestRender_BadColorSkipped(t *testing.T) {
	res := render(t, "Title\n\nBody.", document.Preferences{
		"textColor": "neon",
		"fontSize":  14.0,
	})

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "textColor", res.Skipped[0].Key)
	assert.Equal(t, document.ScopeBody, res.Skipped[0].Scope)
}

func TestRender_UnsupportedFontSkipped(t *testing.T) {
	res := render(t, "Title\n\nBody.", document.Preferences{"fontName": "Papyrus"})

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "fontName", res.Skipped[0].Key)
}

func TestRender_ArialAliasAccepted(t *testing.T) {
	res := render(t, "Title\n\nBody.", document.Preferences{"fontName": "Arial"})
	assert.Empty(t, res.Skipped)
}

func TestRender_MarginsAndStyling(t *testing.T) {
	prefs := document.Preferences{
		"fontSize":        14.0,
		"alignment":       "justify",
		"textColor":       "#333333",
		"page_topMargin":  100.0,
		"title_alignment": "center",
		"title_fontSize":  24.0,
	}

	res := render(t, "Annual Review\n\nFirst paragraph.\n\nSecond paragraph.", prefs)

	assert.Empty(t, res.Skipped)
	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestRender_NonASCIIContent(t *testing.T) {
	res := render(t, "Résumé\n\nNaïve café über alles.", nil)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(data[:5]))
}

func TestRender_AllocatorFailure(t *testing.T) {
	r := NewRenderer(failingAllocator{})

	res, err := r.Render(context.Background(), document.RenderInput{Content: "Title"})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "allocate artifact")
}

func TestRender_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(&dirAllocator{dir: t.TempDir()})
	res, err := r.Render(ctx, document.RenderInput{Content: "Title"})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestTitleFontSizeBeatsBareFontSize(t *testing.T) {
	prefs := document.Preferences{
		"fontSize":       30.0,
		"title_fontSize": 22.0,
	}

	title, failures := document.Resolve(document.ScopeTitle, defaultTitleProps(), titleRegistry, prefs)
	require.Empty(t, failures)
	assert.Equal(t, 22.0, title.FontSize)

	body, _ := document.Resolve(document.ScopeBody, defaultBodyProps(), bodyRegistry, prefs)
	assert.Equal(t, 30.0, body.FontSize)
}

func TestBareFontSizeLeavesTitleDefault(t *testing.T) {
	prefs := document.Preferences{"fontSize": 14.0}

	title, failures := document.Resolve(document.ScopeTitle, defaultTitleProps(), titleRegistry, prefs)
	require.Empty(t, failures)
	assert.Equal(t, defaultTitleProps().FontSize, title.FontSize)

	body, _ := document.Resolve(document.ScopeBody, defaultBodyProps(), bodyRegistry, prefs)
	assert.Equal(t, 14.0, body.FontSize)
}

func TestPageMarginPrefixWinsOverBare(t *testing.T) {
	prefs := document.Preferences{
		"leftMargin":      100.0,
		"page_leftMargin": 30.0,
	}

	page, failures := document.Resolve(document.ScopePage, defaultPageProps(), pageRegistry, prefs)

	require.Empty(t, failures)
	assert.Equal(t, 30.0, page.LeftMargin)
	assert.Equal(t, 72.0, page.RightMargin)
}

func TestDefaultPageProps(t *testing.T) {
	page := defaultPageProps()
	assert.Equal(t, 72.0, page.LeftMargin)
	assert.Equal(t, 72.0, page.RightMargin)
	assert.Equal(t, 72.0, page.TopMargin)
	assert.Equal(t, 18.0, page.BottomMargin)
}
