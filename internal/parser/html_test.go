package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingSections(t *testing.T) {
	input := `<html><head><title>Conference Scans</title></head><body>
<h2>John Smith</h2>
<p>CEO</p>
<p>john@acme.com</p>
<h2>Jane Doe</h2>
<p>CTO</p>
</body></html>`

	p := &HTMLParser{}
	scan, err := p.Parse(strings.NewReader(input), "scans.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scan.Title != "Conference Scans" {
		t.Errorf("expected title from <title> tag, got %q", scan.Title)
	}
	if len(scan.Cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(scan.Cards))
	}
	if !strings.HasPrefix(scan.Cards[0].Text, "John Smith") {
		t.Errorf("expected first card to start with heading, got %q", scan.Cards[0].Text)
	}
	if !strings.Contains(scan.Cards[0].Text, "john@acme.com") {
		t.Errorf("expected first card to contain email, got %q", scan.Cards[0].Text)
	}
	if !strings.HasPrefix(scan.Cards[1].Text, "Jane Doe") {
		t.Errorf("expected second card to start with heading, got %q", scan.Cards[1].Text)
	}
}

func TestHTMLParser_SkipsChromeElements(t *testing.T) {
	input := `<html><body>
<nav>Home | About</nav>
<script>var x = 1;</script>
<p>Bob Lee</p>
<p>bob@lee.dev</p>
<footer>Copyright 2026</footer>
</body></html>`

	p := &HTMLParser{}
	scan, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(scan.Cards))
	}
	text := scan.Cards[0].Text
	for _, banned := range []string{"Home", "var x", "Copyright"} {
		if strings.Contains(text, banned) {
			t.Errorf("chrome content %q leaked into card: %q", banned, text)
		}
	}
	if !strings.Contains(text, "bob@lee.dev") {
		t.Errorf("expected email in card, got %q", text)
	}
}

func TestHTMLParser_BRBreaksLines(t *testing.T) {
	input := `<html><body><p>Jane Doe<br>CTO<br>jane@nova.io</p></body></html>`

	p := &HTMLParser{}
	scan, err := p.Parse(strings.NewReader(input), "card.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scan.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(scan.Cards))
	}
	lines := strings.Split(scan.Cards[0].Text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), scan.Cards[0].Text)
	}
	if lines[0] != "Jane Doe" {
		t.Errorf("expected first line %q, got %q", "Jane Doe", lines[0])
	}
}

func TestHTMLParser_NoTitleTagFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	scan, err := p.Parse(strings.NewReader("<p>text</p>"), "export.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scan.Title != "export" {
		t.Errorf("expected title %q, got %q", "export", scan.Title)
	}
}
