package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cardspark/cardex/internal/scandoc"
)

// CSVParser handles CSV contact exports. The first row is headers; each
// data row becomes one card, rendered as "Header: value" lines so the
// label pass can pick up columns like Email or Phone directly.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*scandoc.Scan, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	scan := &scandoc.Scan{Title: titleFor(filename)}

	if len(records) < 2 {
		return scan, nil
	}

	headers := records[0]

	for i, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString("\n")
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				text.WriteString(strings.TrimSpace(headers[j]) + ": " + cell)
			} else {
				text.WriteString(cell)
			}
		}
		if text.Len() == 0 {
			continue
		}
		scan.Cards = append(scan.Cards, &scandoc.Card{
			Text: text.String(),
			Page: i + 2, // 1-indexed source row, header is row 1
		})
	}

	return scan, nil
}
