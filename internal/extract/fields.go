// Package extract reconstructs structured contact fields from raw,
// noisy business-card text.
//
// The input is whatever an upstream OCR engine or document parser produced:
// multi-line, inconsistently ordered, mixed Latin/CJK, full of stray symbols.
// Extraction is a pure function of that string, with no I/O and no shared
// state, and runs a fixed sequence of passes: normalization, per-field candidate
// extraction, scoring/disambiguation, label overrides, and a final conflict
// cleanup. A field that cannot be determined is left empty; that is a normal
// outcome, not an error.
//
// All functions are safe for concurrent use by multiple goroutines.
package extract

import "strings"

// Fields is the structured result of one extraction. Every field is
// best-effort: empty means "could not be determined", not an error. When
// set, a field is a trimmed, non-empty string.
type Fields struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty"`
	Company   string `json:"company,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Website   string `json:"website,omitempty"`
	Location  string `json:"location,omitempty"`
}

// IsEmpty reports whether no field was determined.
func (f Fields) IsEmpty() bool {
	return f == Fields{}
}

// FilledCount returns the number of non-empty fields.
func (f Fields) FilledCount() int {
	n := 0
	for _, v := range f.values() {
		if *v != "" {
			n++
		}
	}
	return n
}

func (f *Fields) values() [8]*string {
	return [8]*string{
		&f.FirstName, &f.LastName, &f.JobTitle, &f.Company,
		&f.Email, &f.Phone, &f.Website, &f.Location,
	}
}

func (f *Fields) trimAll() {
	for _, v := range f.values() {
		*v = strings.TrimSpace(*v)
	}
}
