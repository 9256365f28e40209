package workflow

import "github.com/fyrsmithlabs/docforge/internal/document"

// RenderStage names a render branch.
type RenderStage string

const (
	RenderWord RenderStage = "render_word"
	RenderPDF  RenderStage = "render_pdf"
)

// Route maps a document kind onto its render stage. Pure: pdf routes to
// the pdf branch, everything else renders as word.
func Route(kind document.Kind) RenderStage {
	if kind == document.KindPDF {
		return RenderPDF
	}
	return RenderWord
}
