package extract

import "regexp"

// Compiled patterns for the candidate passes. Text is normalized before any
// of these run, so they only need to handle ASCII punctuation and plain
// hyphens/bullets.
var (
	// Email: standard local@domain.tld shape, first match wins.
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Phone, generic grouping: optional country code, optional area group,
	// then a 3-4 digit group and a final 4 digit group.
	rePhone = regexp.MustCompile(`(?:\+?\d{1,3}[-\s.]*)?(?:\(?\d{2,4}\)?[-\s.]*)?\d{3,4}[-\s.]?\d{4}\b`)
	// Phone, Chinese mobile: 11 digits with a recognized leading pair,
	// optionally prefixed by the country code.
	reMobileCN = regexp.MustCompile(`(?:\+?86[-\s]?)?1[3-9]\d{9}\b`)

	// URL: bare domain with optional scheme and path. Candidates containing
	// "@" are discarded later so the email never re-matches as a website.
	reURL    = regexp.MustCompile(`(?i)\b(?:https?://)?(?:[a-z0-9\-]+\.)+[a-z]{2,}\b(?:/\S*)?`)
	reScheme = regexp.MustCompile(`(?i)^https?://`)

	// Location, Western: "City, ST" or "City, State".
	reLocationWest = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*),\s*([A-Z]{2}|[A-Z][a-zA-Z]+)\b`)
	// Location, CJK: Han sequence ending in an administrative-division
	// suffix, optionally followed by a sub-division chunk.
	reLocationCJK = regexp.MustCompile(`(\p{Han}{1,7}(?:自治区|特别行政区|市|省|县|区|州))(\p{Han}{1,7}(?:市|县|区|州))?`)

	// Name shapes. Latin: 2-30 chars of letters, spaces, periods,
	// apostrophes, hyphens. CJK: 2-4 Han characters, optionally with a
	// middle-dot separator between family and given name.
	reNameLatin = regexp.MustCompile(`^[A-Za-z][A-Za-z\s.'\-]{1,29}$`)
	reNameCJK   = regexp.MustCompile(`^\p{Han}{2,4}$|^\p{Han}{1,2}·\p{Han}{1,3}$`)

	// Separator for single-line "Title — Company" splits. Normalization has
	// already folded dash variants to "-"; the originals stay in the
	// alternation so a raw line still splits.
	reTitleCompanySep = regexp.MustCompile(`\s+(?:—|–|-|•|·|@|[Aa][Tt])\s+`)

	// Lines claimed by an explicit label. The title and company keyword
	// passes skip these; the override pass owns them.
	reAnyLabel = regexp.MustCompile(`(?i)^(?:email|phone|tel|website|location|address|title|company|邮箱|电话|网址|地址|职位|公司)[:\s]`)

	// Company suffix as a whole word.
	reCompanyWord = regexp.MustCompile(`(?i)\b(?:incorporated|inc|llc|limited|ltd|co\.|company|corporation|corp|group|studio|labs|lab|technologies|technology|systems|solutions)\b`)
	// Looser org hints for the top-of-card fallback scan.
	reCompanyLoose = regexp.MustCompile(`(?i)labs|studio|group|company|inc|llc|ltd`)
)

// titleHints is the fixed vocabulary of role/title keywords. Matching is a
// case-insensitive substring test, so multi-word entries like "Vice
// President" work on whole lines.
var titleHints = []string{
	"CEO", "CTO", "COO", "CFO", "CMO", "Founder", "Co-founder", "Owner", "Partner",
	"President", "VP", "Vice President", "Director", "Manager", "Lead", "Head",
	"Engineer", "Developer", "Designer", "Product Manager", "PM", "Marketing", "Sales",
	"Consultant", "Analyst", "Specialist", "Coordinator", "Principal", "Staff",
}

// commonTLDs is the allow-list used by the website scorer.
var commonTLDs = map[string]bool{
	"com": true, "co": true, "io": true, "net": true, "org": true, "dev": true,
	"app": true, "ai": true, "us": true, "uk": true, "info": true, "biz": true,
}

// Explicit "Label: value" lines, bilingual. These are the highest-confidence
// signal when present; the override pass uses them to fill any field the
// heuristics left empty.
var (
	reLabelEmail    = regexp.MustCompile(`(?i)^(?:email|邮箱)[:\s]+`)
	reLabelPhone    = regexp.MustCompile(`(?i)^(?:phone|tel|电话)[:\s]+`)
	reLabelWebsite  = regexp.MustCompile(`(?i)^(?:website|网址)[:\s]+`)
	reLabelLocation = regexp.MustCompile(`(?i)^(?:location|address|地址)[:\s]+`)
	reLabelTitle    = regexp.MustCompile(`(?i)^(?:title|职位)[:\s]+`)
	reLabelCompany  = regexp.MustCompile(`(?i)^(?:company|公司)[:\s]+`)
)
