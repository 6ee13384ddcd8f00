package extract

import (
	"strings"
	"unicode/utf8"
)

// Heuristic window sizes. Cards conventionally place the name and title near
// the top, so several passes only look at the first few lines.
const (
	nameWindow  = 4  // lines scanned for a personal-name shape
	splitWindow = 8  // lines scanned for a "Title - Company" split
	orgWindow   = 6  // lines scanned by the loose company fallback
	labelWindow = 12 // lines scanned for explicit "Label: value" overrides
)

// maxTitleLineLen caps the title keyword fallback; anything longer is prose,
// not a job title.
const maxTitleLineLen = 60

// Extract reconstructs contact fields from raw card text. It is a pure,
// total function: any string in, a (possibly empty) Fields out, never an
// error. Calling it twice on the same input yields the identical result.
func Extract(raw string) Fields {
	text := Normalize(raw)
	lines := splitLines(text)

	var out Fields

	// Anchors first: email and phone are the least ambiguous patterns and
	// the email feeds both the website scorer and the name fallback.
	out.Email = reEmail.FindString(text)
	out.Phone = findPhone(text)
	out.Website = findWebsite(text, lines, out.Email)
	out.Location = findLocation(lines)

	// A single-line split beats the independent keyword passes.
	title, company := findTitleCompanySplit(lines)
	if title == "" {
		title = findTitleLine(lines)
	}
	if company == "" {
		company = findCompanyLine(lines)
	}
	out.JobTitle = title
	out.Company = company

	out.FirstName, out.LastName = findName(lines)
	if out.FirstName == "" || out.LastName == "" {
		first, last := nameFromEmail(out.Email)
		if out.FirstName == "" {
			out.FirstName = first
		}
		if out.LastName == "" {
			out.LastName = last
		}
	}

	applyLabelOverrides(&out, lines)
	resolveConflicts(&out)
	return out
}

// findPhone collects every match of both phone shapes and keeps the longest
// distinct one: more grouping punctuation means more confidently a real
// phone number rather than a stray digit run.
func findPhone(text string) string {
	var matches []string
	matches = append(matches, rePhone.FindAllString(text, -1)...)
	matches = append(matches, reMobileCN.FindAllString(text, -1)...)

	best := ""
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		if len(m) > len(best) {
			best = m
		}
	}
	return best
}

// findWebsite scores every URL-shaped candidate and returns the winner with
// an explicit scheme. Candidates from a "Website:" label line get a bonus;
// anything containing "@" is discarded so the email never re-matches.
func findWebsite(text string, lines []string, email string) string {
	var cands []urlCandidate
	for _, m := range reURL.FindAllString(text, -1) {
		u := strings.TrimRight(m, "),.;")
		if u == "" || strings.Contains(u, "@") {
			continue
		}
		cands = append(cands, urlCandidate{url: u, score: scoreURL(u, email)})
	}
	for _, ln := range lines {
		if !reLabelWebsite.MatchString(ln) {
			continue
		}
		u := strings.TrimSpace(reLabelWebsite.ReplaceAllString(ln, ""))
		if u != "" {
			cands = append(cands, urlCandidate{url: u, score: scoreURL(u, email) + 2})
		}
	}
	if len(cands) == 0 {
		return ""
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return ensureScheme(best.url)
}

// findLocation prefers explicitly labeled lines as the search source, then
// falls back to a pattern scan over all lines. Either way the value must
// match one of the two location shapes; raw label remainders that match
// nothing are left to the override pass.
func findLocation(lines []string) string {
	for _, ln := range lines {
		if reLabelLocation.MatchString(ln) {
			if v := matchLocation(reLabelLocation.ReplaceAllString(ln, "")); v != "" {
				return v
			}
		}
	}
	for _, ln := range lines {
		if v := matchLocation(ln); v != "" {
			return v
		}
	}
	return ""
}

func matchLocation(s string) string {
	if m := reLocationWest.FindStringSubmatch(s); m != nil {
		return m[1] + ", " + m[2]
	}
	if m := reLocationCJK.FindStringSubmatch(s); m != nil {
		return m[1] + m[2]
	}
	return ""
}

// findTitleCompanySplit scans the top of the card for a line that splits
// into (title, company) on a separator. The first committing split wins and
// takes precedence over the single-field keyword heuristics.
func findTitleCompanySplit(lines []string) (string, string) {
	for _, ln := range firstN(lines, splitWindow) {
		if title, company, ok := splitTitleCompany(ln); ok {
			return title, company
		}
	}
	return "", ""
}

// findTitleLine is the fallback title pass: the first short line containing
// a title keyword that is not claimed by a contact label.
func findTitleLine(lines []string) string {
	for _, ln := range lines {
		if utf8.RuneCountInString(ln) <= maxTitleLineLen &&
			containsTitleHint(ln) &&
			!reAnyLabel.MatchString(ln) {
			return ln
		}
	}
	return ""
}

// findCompanyLine is the fallback company pass: a line carrying a
// legal-entity suffix anywhere, else a loose organization hint within the
// first few lines.
func findCompanyLine(lines []string) string {
	for _, ln := range lines {
		if reCompanyWord.MatchString(ln) && !reAnyLabel.MatchString(ln) {
			return ln
		}
	}
	for _, ln := range firstN(lines, orgWindow) {
		if reCompanyLoose.MatchString(ln) && !reAnyLabel.MatchString(ln) {
			return ln
		}
	}
	return ""
}

// findName picks the shortest line in the top window that looks like a
// personal name. Latin names split on whitespace (first token = given name,
// rest = family name); CJK names split by the one-character-surname
// convention, with an optional middle dot marking the boundary instead.
func findName(lines []string) (first, last string) {
	best := ""
	for _, ln := range firstN(lines, nameWindow) {
		if strings.Contains(ln, ":") {
			continue
		}
		if !reNameLatin.MatchString(ln) && !reNameCJK.MatchString(ln) {
			continue
		}
		if best == "" || utf8.RuneCountInString(ln) < utf8.RuneCountInString(best) {
			best = ln
		}
	}
	if best == "" {
		return "", ""
	}
	return splitName(best)
}

func splitName(name string) (first, last string) {
	if reNameCJK.MatchString(name) {
		if fam, given, ok := strings.Cut(name, "·"); ok {
			return given, fam
		}
		runes := []rune(name)
		return string(runes[1:]), string(runes[0])
	}
	// OCR often shouts name lines in all caps; canonicalize token casing.
	parts := strings.Fields(name)
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	if len(parts) >= 2 {
		return parts[0], strings.Join(parts[1:], " ")
	}
	return parts[0], ""
}

// resolveConflicts is the final cleanup pass. A single ambiguous line can
// satisfy both the title and company heuristics; when that happens, re-run
// the split on the shared value and, if it still collapses to the same
// string, keep the title and drop the company.
func resolveConflicts(f *Fields) {
	if f.JobTitle != "" && f.JobTitle == f.Company {
		if title, company, ok := splitTitleCompany(f.JobTitle); ok {
			f.JobTitle = title
			f.Company = company
		}
		if f.JobTitle == f.Company {
			f.Company = ""
		}
	}
	f.trimAll()
}

func firstN(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}
