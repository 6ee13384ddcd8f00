package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_RowPerCard(t *testing.T) {
	input := "Name,Email,Phone\nJohn Smith,john@acme.com,555-0100\nJane Doe,jane@nova.io,555-0200\n"
	p := &CSVParser{}
	scan, err := p.Parse(strings.NewReader(input), "contacts.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scan.Title != "contacts" {
		t.Errorf("expected title %q, got %q", "contacts", scan.Title)
	}
	if len(scan.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(scan.Cards))
	}

	want := "Name: John Smith\nEmail: john@acme.com\nPhone: 555-0100"
	if scan.Cards[0].Text != want {
		t.Errorf("expected %q, got %q", want, scan.Cards[0].Text)
	}
	// Pages are 1-indexed source rows; the header is row 1.
	if scan.Cards[0].Page != 2 {
		t.Errorf("expected page 2, got %d", scan.Cards[0].Page)
	}
	if scan.Cards[1].Page != 3 {
		t.Errorf("expected page 3, got %d", scan.Cards[1].Page)
	}
}

func TestCSVParser_EmptyCellsOmitted(t *testing.T) {
	input := "Name,Email,Phone\nBob Lee,bob@lee.dev,\n"
	p := &CSVParser{}
	scan, err := p.Parse(strings.NewReader(input), "sparse.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(scan.Cards))
	}
	if strings.Contains(scan.Cards[0].Text, "Phone") {
		t.Errorf("empty cell should be omitted, got %q", scan.Cards[0].Text)
	}
}

func TestCSVParser_RaggedRows(t *testing.T) {
	// Extra cells beyond the header row are kept without a label.
	input := "Name,Email\nJohn Smith,john@acme.com,extra note\n"
	p := &CSVParser{}
	scan, err := p.Parse(strings.NewReader(input), "ragged.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(scan.Cards))
	}
	if !strings.Contains(scan.Cards[0].Text, "extra note") {
		t.Errorf("expected unlabeled extra cell kept, got %q", scan.Cards[0].Text)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	scan, err := p.Parse(strings.NewReader("Name,Email,Phone\n"), "header.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 0 {
		t.Errorf("expected 0 cards for header-only file, got %d", len(scan.Cards))
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := &CSVParser{}
	scan, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 0 {
		t.Errorf("expected 0 cards for empty input, got %d", len(scan.Cards))
	}
}
