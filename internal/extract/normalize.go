package extract

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctReplacer canonicalizes punctuation variants so downstream patterns
// never have to special-case keyboard locale or OCR engine quirks:
// fullwidth colon/comma/parentheses to their ASCII equivalents, dash
// variants to a plain hyphen, bullet glyph variants to a single bullet,
// and non-breaking spaces to regular spaces. "\r\n" is listed before "\r"
// so CRLF collapses to a single newline.
var punctReplacer = strings.NewReplacer(
	"：", ":",
	"，", ",",
	"（", "(",
	"）", ")",
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"●", "•",
	"▪", "•",
	"◦", "•",
	"‣", "•",
	"\u00a0", " ", // non-breaking space
	"\r\n", "\n",
	"\r", "\n",
)

// Normalize produces the canonical text form all patterns run against.
// Total: any input, including empty, yields an equal-or-shorter string
// with the same logical content.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	// OCR engines occasionally emit decomposed accents; recompose first.
	s = norm.NFC.String(s)
	return punctReplacer.Replace(s)
}

// cleanLine collapses runs of whitespace, drops OCR pipe noise, and trims
// bullet markers from the edges. Interior bullets and middle dots are kept:
// the title/company splitter treats them as separators.
func cleanLine(s string) string {
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, "•· ")
}

// splitLines turns normalized text into its ordered, trimmed, non-empty
// line set. Order matters: several heuristics use "first N lines" as a
// proxy for where a card places the name and title.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		if ln = cleanLine(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
