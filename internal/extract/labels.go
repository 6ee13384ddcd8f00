package extract

import (
	"regexp"
	"strings"
)

// applyLabelOverrides scans the top of the card for explicit "Label: value"
// lines, English or Chinese. Labels are the most reliable signal when
// present, but this pass only fills gaps: a field already set by the
// heuristic passes is never overwritten.
func applyLabelOverrides(f *Fields, lines []string) {
	for _, ln := range firstN(lines, labelWindow) {
		if f.JobTitle == "" {
			f.JobTitle = labelValue(reLabelTitle, ln)
		}
		if f.Company == "" {
			f.Company = labelValue(reLabelCompany, ln)
		}
		if f.Website == "" {
			if v := labelValue(reLabelWebsite, ln); v != "" {
				f.Website = ensureScheme(v)
			}
		}
		if f.Phone == "" {
			f.Phone = labelValue(reLabelPhone, ln)
		}
		if f.Email == "" {
			f.Email = labelValue(reLabelEmail, ln)
		}
		if f.Location == "" {
			f.Location = labelValue(reLabelLocation, ln)
		}
	}
}

// labelValue returns the line's remainder after the label prefix, or ""
// when the line does not carry that label.
func labelValue(label *regexp.Regexp, line string) string {
	if !label.MatchString(line) {
		return ""
	}
	return strings.TrimSpace(label.ReplaceAllString(line, ""))
}
