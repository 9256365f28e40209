package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/docforge/internal/document"
	"github.com/fyrsmithlabs/docforge/internal/document/docx"
	"github.com/fyrsmithlabs/docforge/internal/document/pdf"
)

func renderArtifact(t *testing.T, r document.Renderer, content string) string {
	t.Helper()
	res, err := r.Render(context.Background(), document.RenderInput{Content: content})
	require.NoError(t, err)
	return res.Path
}

func TestVerify_Docx(t *testing.T) {
	s := newTestStore(t)
	path := renderArtifact(t, docx.NewRenderer(s), "Title\n\nBody paragraph.")

	assert.NoError(t, Verify(path))
}

func TestVerify_DocxCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	err := Verify(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify docx")
}

func TestVerify_PDF(t *testing.T) {
	s := newTestStore(t)
	path := renderArtifact(t, pdf.NewRenderer(s), "Title\n\nBody paragraph.")

	assert.NoError(t, Verify(path))
}

func TestVerify_PDFCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-not really"), 0o644))

	err := Verify(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "verify pdf")
}

func TestVerify_UnknownExtensionPasses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	assert.NoError(t, Verify(path))
}
