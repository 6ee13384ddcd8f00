package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/cardspark/cardex/internal/scandoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown notes using goldmark. Each top-level
// heading starts a new card (people keep card transcripts as "## Name"
// sections); a file without headings is a single card.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*scandoc.Scan, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

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

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			// The heading itself is card content: it's usually the name line.
			if title := string(h.Text(src)); title != "" {
				current.WriteString(title)
			}
			continue
		}
		if t := blockText(n, src); t != "" {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(t)
		}
	}
	flush()

	return scan, nil
}

// blockText gets the text content of a goldmark AST node. Blocks with
// source lines (paragraphs, code blocks) are read straight from the
// source; containers (lists, quotes) recurse into their children.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
