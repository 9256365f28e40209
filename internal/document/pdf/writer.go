// Package pdf renders PDF documents with gofpdf. Pages are US Letter
// in point units; margins are page-scoped properties applied before
// any content is emitted.
package pdf

import (
	"context"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/fyrsmithlabs/docforge/internal/document"
)

type rgb struct {
	R, G, B int
}

type bodyProps struct {
	FontName    string
	FontSize    float64
	TextColor   rgb
	Alignment   string
	SpaceAfter  float64
	SpaceBefore float64
}

type titleProps struct {
	Alignment string
	FontSize  float64
}

type pageProps struct {
	LeftMargin   float64
	RightMargin  float64
	TopMargin    float64
	BottomMargin float64
}

func defaultBodyProps() bodyProps {
	return bodyProps{
		FontName:   "Helvetica",
		FontSize:   12,
		Alignment:  document.AlignLeft,
		SpaceAfter: 6,
	}
}

func defaultTitleProps() titleProps {
	return titleProps{Alignment: document.AlignLeft, FontSize: 18}
}

func defaultPageProps() pageProps {
	return pageProps{LeftMargin: 72, RightMargin: 72, TopMargin: 72, BottomMargin: 18}
}

// coreFonts maps accepted font names onto the PDF core families. Text
// set in anything else would require embedding, so unknown names are
// rejected and the default face stays.
var coreFonts = map[string]string{
	"helvetica":       "Helvetica",
	"arial":           "Helvetica",
	"times":           "Times",
	"times new roman": "Times",
	"times-roman":     "Times",
	"courier":         "Courier",
	"courier new":     "Courier",
	"symbol":          "Symbol",
	"zapfdingbats":    "ZapfDingbats",
}

var bodyRegistry = document.Registry[bodyProps]{
	"fontName": func(p *bodyProps, v any) error {
		f, err := asCoreFont(v)
		if err != nil {
			return err
		}
		p.FontName = f
		return nil
	},
	"fontSize": func(p *bodyProps, v any) error {
		n, err := document.AsPositiveNumber(v, 400)
		if err != nil {
			return err
		}
		p.FontSize = n
		return nil
	},
	"textColor": func(p *bodyProps, v any) error {
		s, err := document.AsString(v)
		if err != nil {
			return err
		}
		c, err := parseColor(s)
		if err != nil {
			return err
		}
		p.TextColor = c
		return nil
	},
	"alignment": func(p *bodyProps, v any) error {
		a, err := document.AsAlignment(v)
		if err != nil {
			return err
		}
		p.Alignment = a
		return nil
	},
	"spaceAfter": func(p *bodyProps, v any) error {
		n, err := document.AsNonNegativeNumber(v, 200)
		if err != nil {
			return err
		}
		p.SpaceAfter = n
		return nil
	},
	"spaceBefore": func(p *bodyProps, v any) error {
		n, err := document.AsNonNegativeNumber(v, 200)
		if err != nil {
			return err
		}
		p.SpaceBefore = n
		return nil
	},
}

var titleRegistry = document.Registry[titleProps]{
	"alignment": func(p *titleProps, v any) error {
		a, err := document.AsAlignment(v)
		if err != nil {
			return err
		}
		p.Alignment = a
		return nil
	},
	"fontSize": func(p *titleProps, v any) error {
		n, err := document.AsPositiveNumber(v, 400)
		if err != nil {
			return err
		}
		p.FontSize = n
		return nil
	},
}

func marginSetter(field func(*pageProps) *float64) func(*pageProps, any) error {
	return func(p *pageProps, v any) error {
		n, err := document.AsNonNegativeNumber(v, 300)
		if err != nil {
			return err
		}
		*field(p) = n
		return nil
	}
}

var pageRegistry = document.Registry[pageProps]{
	"leftMargin":   marginSetter(func(p *pageProps) *float64 { return &p.LeftMargin }),
	"rightMargin":  marginSetter(func(p *pageProps) *float64 { return &p.RightMargin }),
	"topMargin":    marginSetter(func(p *pageProps) *float64 { return &p.TopMargin }),
	"bottomMargin": marginSetter(func(p *pageProps) *float64 { return &p.BottomMargin }),
}

// Renderer writes .pdf artifacts.
type Renderer struct {
	alloc document.Allocator
}

var _ document.Renderer = (*Renderer)(nil)

// NewRenderer creates a PDF renderer that persists artifacts through
// the given allocator.
func NewRenderer(alloc document.Allocator) *Renderer {
	return &Renderer{alloc: alloc}
}

// Render splits the content, resolves the three PDF scopes and writes
// the document. Margins are applied at construction, before the first
// page is added.
func (r *Renderer) Render(ctx context.Context, in document.RenderInput) (*document.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefs := in.Preferences.Normalize()
	body, bodyFails := document.Resolve(document.ScopeBody, defaultBodyProps(), bodyRegistry, prefs)
	title, titleFails := document.Resolve(document.ScopeTitle, defaultTitleProps(), titleRegistry, prefs)
	page, pageFails := document.Resolve(document.ScopePage, defaultPageProps(), pageRegistry, prefs)
	skipped := append(append(bodyFails, titleFails...), pageFails...)

	split := document.SplitContent(in.Content)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(page.LeftMargin, page.TopMargin, page.RightMargin)
	pdf.SetAutoPageBreak(true, page.BottomMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if split.Title != "" {
		pdf.SetFont("Helvetica", "B", title.FontSize)
		pdf.MultiCell(0, title.FontSize*1.2, tr(split.Title), "", alignStr(title.Alignment), false)
		pdf.Ln(12)
	}

	pdf.SetFont(body.FontName, "", body.FontSize)
	pdf.SetTextColor(body.TextColor.R, body.TextColor.G, body.TextColor.B)
	for _, para := range split.Paragraphs {
		if body.SpaceBefore > 0 {
			pdf.Ln(body.SpaceBefore)
		}
		pdf.MultiCell(0, body.FontSize*1.2, tr(para), "", alignStr(body.Alignment), false)
		if body.SpaceAfter > 0 {
			pdf.Ln(body.SpaceAfter)
		}
	}

	f, err := r.alloc.Create(string(document.KindPDF), in.Name)
	if err != nil {
		return nil, fmt.Errorf("allocate artifact: %w", err)
	}
	path := f.Name()

	if err := pdf.Output(f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close pdf: %w", err)
	}

	return &document.RenderResult{Path: path, Skipped: skipped}, nil
}

func alignStr(align string) string {
	switch align {
	case document.AlignCenter:
		return "C"
	case document.AlignRight:
		return "R"
	case document.AlignJustify:
		return "J"
	default:
		return "L"
	}
}
