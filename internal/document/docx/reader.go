package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Document is the structural read-back of a .docx artifact: the
// Heading1 title plus the body paragraphs, with in-paragraph breaks
// restored as newlines.
type Document struct {
	Title      string
	Paragraphs []string
}

// ReadFile re-parses a .docx archive. Used by artifact verification
// and by tests asserting that renders round-trip.
func ReadFile(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	return parseDocument(rc)
}

// parseDocument walks the WordprocessingML token stream, collecting
// paragraph text and the first Heading-styled paragraph as the title.
func parseDocument(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}

	var (
		current     strings.Builder
		inParagraph bool
		inText      bool
		style       string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				current.Reset()
				style = ""
			case "pStyle":
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						style = attr.Value
					}
				}
			case "t":
				inText = inParagraph
			case "br":
				if inParagraph {
					current.WriteString("\n")
				}
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if !inParagraph {
					continue
				}
				inParagraph = false
				text := current.String()
				if strings.TrimSpace(text) == "" {
					continue
				}
				if strings.HasPrefix(style, "Heading") && doc.Title == "" {
					doc.Title = text
					continue
				}
				doc.Paragraphs = append(doc.Paragraphs, text)
			}
		}
	}

	return doc, nil
}
