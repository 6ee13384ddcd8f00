package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// urlCandidate pairs a website candidate with its heuristic score.
// Higher wins; ties keep the first-found candidate.
type urlCandidate struct {
	url   string
	score int
}

// scoreURL ranks a website candidate. The weights are deliberate: the
// email's domain is the strongest signal that a candidate is the card
// owner's real site, an explicit scheme and a common TLD are weaker
// confirmations, and short or email-local-part-shaped strings are demoted
// so "firstname.lastname" never beats a genuine domain.
func scoreURL(u, email string) int {
	s := 0
	lower := strings.ToLower(u)

	if reScheme.MatchString(lower) {
		s += 2
	}

	host := hostOf(lower)
	if dot := strings.LastIndex(host, "."); dot >= 0 && commonTLDs[host[dot+1:]] {
		s += 3
	}

	if len(u) < 8 {
		s -= 2
	}

	if email != "" {
		local, domain, ok := strings.Cut(strings.ToLower(email), "@")
		if ok && domain != "" && (host == domain || strings.HasSuffix(host, "."+domain)) {
			s += 4
		}
		if local != "" && (strings.Contains(lower, local) || strings.Contains(local, lower)) {
			s -= 3
		}
	}

	return s
}

// hostOf strips scheme and path from a lowercase URL candidate.
func hostOf(lower string) string {
	if after, ok := strings.CutPrefix(lower, "https://"); ok {
		lower = after
	} else if after, ok := strings.CutPrefix(lower, "http://"); ok {
		lower = after
	}
	if slash := strings.IndexByte(lower, '/'); slash >= 0 {
		lower = lower[:slash]
	}
	return lower
}

// ensureScheme prefixes https:// when the candidate lacks an explicit scheme.
func ensureScheme(u string) string {
	if reScheme.MatchString(u) {
		return u
	}
	return "https://" + u
}

// splitTitleCompany attempts to recover (title, company) from a single line
// OCR'd as "Product Manager - Acme Corp". The left segment qualifies as
// title-like if it contains a title keyword or has at most six words; the
// right as company-like if it contains a company suffix or has at most six
// words. Both qualifying is the strong case; a title-like left alone still
// commits the split as a weaker signal.
func splitTitleCompany(line string) (title, company string, ok bool) {
	loc := reTitleCompanySep.FindStringIndex(line)
	if loc == nil {
		return "", "", false
	}
	left := strings.TrimSpace(line[:loc[0]])
	right := strings.TrimSpace(line[loc[1]:])
	if left == "" || right == "" {
		return "", "", false
	}

	leftLooksLikeTitle := containsTitleHint(left) || wordCount(left) <= 6
	rightLooksLikeCompany := reCompanyWord.MatchString(right) || wordCount(right) <= 6

	if leftLooksLikeTitle && rightLooksLikeCompany {
		return left, right, true
	}
	if leftLooksLikeTitle {
		return left, right, true
	}
	return "", "", false
}

func containsTitleHint(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range titleHints {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// nameFromEmail derives a fallback name from the email's local part:
// "john.smith@..." becomes ("John", "Smith"). Used only to fill name
// fields the line heuristics left empty.
func nameFromEmail(email string) (first, last string) {
	if email == "" {
		return "", ""
	}
	local, _, _ := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case r == '.' || r == '_' || r == '-' || r == ' ':
			return r
		}
		return ' '
	}, local)

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == ' '
	})
	if len(parts) > 3 {
		parts = parts[:3]
	}
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return capitalize(parts[0]), ""
	default:
		rest := make([]string, 0, len(parts)-1)
		for _, p := range parts[1:] {
			rest = append(rest, capitalize(p))
		}
		return capitalize(parts[0]), strings.Join(rest, " ")
	}
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
