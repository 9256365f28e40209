// Package docx renders Word documents as OOXML archives using only the
// zip and xml machinery from the standard library. The format is a
// fixed, small subset of WordprocessingML: one Heading1 title paragraph
// followed by styled body paragraphs.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/fyrsmithlabs/docforge/internal/document"
)

// bodyProps are the resolved run and paragraph properties for body
// text. Zero values for Alignment and LineSpacing mean "inherit from
// the document defaults", so nothing is emitted for them.
type bodyProps struct {
	Name        string
	Size        float64
	Bold        bool
	Italic      bool
	Underline   bool
	Alignment   string
	LineSpacing float64
}

// titleProps are the resolved properties for the title paragraph. The
// title's face and size come from the Heading1 style, not from body
// preferences.
type titleProps struct {
	Alignment string
}

func defaultBodyProps() bodyProps {
	return bodyProps{Name: "Calibri", Size: 11}
}

func defaultTitleProps() titleProps {
	return titleProps{Alignment: document.AlignLeft}
}

// bodyRegistry enumerates every body property a Word render accepts.
// Keys absent here are ignored upstream; page-scoped keys have no Word
// mapping at all and fall through unrecognized.
var bodyRegistry = document.Registry[bodyProps]{
	"name": func(p *bodyProps, v any) error {
		s, err := document.AsString(v)
		if err != nil {
			return err
		}
		p.Name = s
		return nil
	},
	"size": func(p *bodyProps, v any) error {
		n, err := document.AsPositiveNumber(v, 400)
		if err != nil {
			return err
		}
		p.Size = n
		return nil
	},
	"bold": func(p *bodyProps, v any) error {
		b, err := document.AsBool(v)
		if err != nil {
			return err
		}
		p.Bold = b
		return nil
	},
	"italic": func(p *bodyProps, v any) error {
		b, err := document.AsBool(v)
		if err != nil {
			return err
		}
		p.Italic = b
		return nil
	},
	"underline": func(p *bodyProps, v any) error {
		b, err := document.AsBool(v)
		if err != nil {
			return err
		}
		p.Underline = b
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
	"line_spacing": func(p *bodyProps, v any) error {
		n, err := document.AsPositiveNumber(v, 10)
		if err != nil {
			return err
		}
		p.LineSpacing = n
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
}

// Renderer writes .docx artifacts.
type Renderer struct {
	alloc document.Allocator
}

var _ document.Renderer = (*Renderer)(nil)

// NewRenderer creates a Word renderer that persists artifacts through
// the given allocator.
func NewRenderer(alloc document.Allocator) *Renderer {
	return &Renderer{alloc: alloc}
}

// Render splits the content, resolves formatting against the Word
// registries and writes the OOXML archive. Unapplied properties are
// reported in the result; only an unwritable artifact is an error.
func (r *Renderer) Render(ctx context.Context, in document.RenderInput) (*document.RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefs := in.Preferences.Normalize()
	body, bodyFails := document.Resolve(document.ScopeBody, defaultBodyProps(), bodyRegistry, prefs)
	title, titleFails := document.Resolve(document.ScopeTitle, defaultTitleProps(), titleRegistry, prefs)
	skipped := append(bodyFails, titleFails...)

	split := document.SplitContent(in.Content)
	doc := buildDocumentXML(split, body, title)

	f, err := r.alloc.Create(string(document.KindWord), in.Name)
	if err != nil {
		return nil, fmt.Errorf("allocate artifact: %w", err)
	}
	path := f.Name()

	if err := writeArchive(f, doc); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write docx: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close docx: %w", err)
	}

	return &document.RenderResult{Path: path, Skipped: skipped}, nil
}

// writeArchive assembles the OPC package around the document part.
func writeArchive(f *os.File, documentXML []byte) error {
	zw := zip.NewWriter(f)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/document.xml", documentXML},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

func buildDocumentXML(split document.Split, body bodyProps, title titleProps) []byte {
	var b bytes.Buffer
	b.WriteString(documentXMLHeader)
	if split.Title != "" {
		writeTitleParagraph(&b, split.Title, title)
	}
	for _, para := range split.Paragraphs {
		writeBodyParagraph(&b, para, body)
	}
	b.WriteString(documentXMLFooter)
	return b.Bytes()
}

func writeTitleParagraph(b *bytes.Buffer, text string, props titleProps) {
	b.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading1"/>`)
	fmt.Fprintf(b, `<w:jc w:val="%s"/>`, justification(props.Alignment))
	b.WriteString(`</w:pPr><w:r>`)
	writeText(b, text)
	b.WriteString(`</w:r></w:p>` + "\n")
}

func writeBodyParagraph(b *bytes.Buffer, text string, props bodyProps) {
	b.WriteString(`<w:p><w:pPr>`)
	if props.Alignment != "" {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, justification(props.Alignment))
	}
	if props.LineSpacing > 0 {
		// WordprocessingML measures auto line spacing in 240ths.
		fmt.Fprintf(b, `<w:spacing w:line="%d" w:lineRule="auto"/>`, int(props.LineSpacing*240))
	}
	b.WriteString(`</w:pPr><w:r><w:rPr>`)
	fmt.Fprintf(b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, escape(props.Name), escape(props.Name))
	if props.Bold {
		b.WriteString(`<w:b/>`)
	}
	if props.Italic {
		b.WriteString(`<w:i/>`)
	}
	if props.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	// Run size is in half-points.
	fmt.Fprintf(b, `<w:sz w:val="%d"/>`, int(props.Size*2))
	b.WriteString(`</w:rPr>`)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		writeText(b, line)
	}
	b.WriteString(`</w:r></w:p>` + "\n")
}

func writeText(b *bytes.Buffer, s string) {
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escape(s))
	b.WriteString(`</w:t>`)
}

// justification maps the alignment names onto w:jc values. OOXML
// spells full justification "both".
func justification(align string) string {
	if align == document.AlignJustify {
		return "both"
	}
	return align
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
