package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cardspark/cardex/internal/scandoc"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading paragraphs start new cards; a
// document without headings becomes a single card.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*scandoc.Scan, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "cardex-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	scan := &scandoc.Scan{Title: titleFor(filename)}

	var current strings.Builder
	page := 0

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			page++
			scan.Cards = append(scan.Cards, &scandoc.Card{Text: t, Page: page})
		}
		current.Reset()
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if docxIsHeading(para) {
			flush()
			// The heading line is card content (usually the name).
			current.WriteString(text)
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(text)
	}
	flush()

	return scan, nil
}

func docxIsHeading(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	style := strings.ToLower(para.Properties.Style.Val)
	return strings.HasPrefix(style, "heading")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
