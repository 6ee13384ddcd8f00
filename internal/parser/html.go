package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/cardspark/cardex/internal/scandoc"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML exports (webmail prints, CRM page saves). Each
// heading starts a new card; chrome elements (nav, footer, script) are
// skipped.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*scandoc.Scan, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	scan := &scandoc.Scan{Title: titleFor(filename)}

	// Prefer the <title> tag over the filename.
	if title := findTitle(doc); title != "" {
		scan.Title = title
	}

	var current strings.Builder
	page := 0

	flush := func() {
		if t := strings.TrimSpace(current.String()); t != "" {
			page++
			scan.Cards = append(scan.Cards, &scandoc.Card{Text: t, Page: page})
		}
		current.Reset()
	}

	appendText := func(t string) {
		if t == "" {
			return
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(t)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if headingLevel(n.Data) > 0 {
				flush()
				// The heading line itself is card content (usually the name).
				appendText(textContent(n))
				return
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "address":
				appendText(textContent(n))
				return
			case "br":
				current.WriteString("\n")
				return
			}
		}
		if n.Type == html.TextNode {
			appendText(strings.TrimSpace(n.Data))
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flush()

	return scan, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
