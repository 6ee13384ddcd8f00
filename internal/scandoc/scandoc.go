package scandoc

// Scan is the parsed form of one uploaded source: a titled, ordered set of
// card texts. Order is preserved from the source document.
type Scan struct {
	Title string  // Source title (from metadata or filename)
	Cards []*Card // One entry per business card found in the source
}

// Card is the raw text of a single business card, ready for field
// extraction. Text is whatever the source produced, unnormalized and
// possibly noisy.
type Card struct {
	Text string // Raw card text
	Page int    // Source page/row/section (0 if N/A)
}
