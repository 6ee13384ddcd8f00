package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/cardspark/cardex/internal/scandoc"
)

// cardRule matches separator lines ("---", "===") between cards in a
// plain-text dump. Form feeds also split; a file with neither is one card.
var cardRule = regexp.MustCompile(`^[-=]{3,}$`)

// TextParser handles plain-text OCR dumps. A single dump is usually one
// card, but batch exports concatenate several with rule lines or form
// feeds between them.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*scandoc.Scan, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []string
	var current strings.Builder

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			blocks = append(blocks, current.String())
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if cardRule.MatchString(trimmed) || strings.ContainsRune(line, '\f') {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	scan := &scandoc.Scan{Title: titleFor(filename)}
	for i, block := range blocks {
		scan.Cards = append(scan.Cards, &scandoc.Card{
			Text: strings.TrimSpace(block),
			Page: i + 1,
		})
	}
	return scan, nil
}
