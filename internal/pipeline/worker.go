package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cardspark/cardex/internal/contactstore"
	"github.com/cardspark/cardex/internal/extract"
	"github.com/cardspark/cardex/internal/parser"
	"github.com/cardspark/cardex/internal/scandoc"
)

// Worker processes a single scan job.
type Worker struct {
	jobs  *JobStore
	store *contactstore.Client // nil when no store is configured
	stats *extract.Stats
	log   *slog.Logger

	pdfFallback        bool
	maxConcurrentStore int
}

func NewWorker(jobs *JobStore, store *contactstore.Client, stats *extract.Stats, log *slog.Logger, pdfFallback bool, maxStore int) *Worker {
	return &Worker{
		jobs:               jobs,
		store:              store,
		stats:              stats,
		log:                log,
		pdfFallback:        pdfFallback,
		maxConcurrentStore: maxStore,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "scan_id", job.ScanID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = w.pdfFallback
	}

	scan, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		scan.Title = job.Title
	}

	// Compute content hash from the parsed card texts.
	job.SetContentHash(ContentHashHex([]byte(flattenCardText(scan))))

	// Phase 1.5: Dedup check against recent jobs.
	if dup := w.jobs.FindByContentHash(job.ContentHash, job.ID); dup != nil {
		log.Info("duplicate scan, skipping", "existing_job_id", dup.ID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	job.SetTotalCards(len(scan.Cards))
	log.Info("parsed scan", "cards", len(scan.Cards))

	if len(scan.Cards) == 0 {
		log.Warn("no cards found")
		job.AddError("no extractable card text")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Extract fields from each card. Extraction is pure and
	// cheap, so cards run sequentially in source order.
	job.SetStatus(StatusExtracting, "extracting")
	var contacts []contactstore.Contact
	for _, card := range scan.Cards {
		start := time.Now()
		fields := extract.Extract(card.Text)
		w.stats.Record(time.Since(start), fields)

		job.IncrCardsProcessed()
		job.AddCounts(fields.FilledCount(), 0)
		job.AddResult(CardResult{Page: card.Page, Fields: fields})

		if fields.IsEmpty() {
			log.Warn("no fields found", "page", card.Page)
			continue
		}
		contacts = append(contacts, contactstore.Contact{
			Fingerprint: contactstore.Fingerprint(fields),
			Fields:      fields,
			SourceTitle: scan.Title,
			SourcePage:  card.Page,
			RawText:     card.Text,
			CapturedAt:  job.CreatedAt.Format(time.RFC3339),
		})
	}
	log.Info("extraction complete", "contacts", len(contacts))

	if w.store == nil || len(contacts) == 0 {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Store contacts with bounded concurrency.
	job.SetStatus(StatusStoring, "storing")
	sem := make(chan struct{}, w.maxConcurrentStore)
	type storeResult struct {
		stored bool
		err    error
		page   int
	}
	results := make(chan storeResult, len(contacts))

	for _, contact := range contacts {
		sem <- struct{}{}
		go func(c contactstore.Contact) {
			defer func() { <-sem }()
			stored, err := w.storeContact(ctx, c, log)
			results <- storeResult{stored: stored, err: err, page: c.SourcePage}
		}(contact)
	}

	storedCount := 0
	hadErrors := false
	for range contacts {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "page", r.page, "error", r.err)
			job.AddError(fmt.Sprintf("store page %d: %s", r.page, r.err))
			hadErrors = true
			continue
		}
		if r.stored {
			storedCount++
		}
	}

	job.AddCounts(0, storedCount)
	log.Info("storage complete", "stored", storedCount, "total", len(contacts))

	if hadErrors && storedCount > 0 {
		job.SetStatus(StatusPartial, "done")
	} else if hadErrors {
		job.SetStatus(StatusFailed, "storing")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeContact writes one contact, skipping fingerprints the store
// already has. Returns whether a new contact was stored.
func (w *Worker) storeContact(ctx context.Context, c contactstore.Contact, log *slog.Logger) (bool, error) {
	existing, err := w.store.FindByFingerprint(ctx, c.Fingerprint)
	if err != nil {
		log.Warn("dedup lookup failed, storing anyway", "error", err)
	} else if existing != nil {
		log.Info("duplicate contact, skipping", "contact_id", existing.ID, "page", c.SourcePage)
		return false, nil
	}

	var lastErr error
	for attempt := range MaxRetries {
		_, lastErr = w.store.PutContact(ctx, c)
		if lastErr == nil {
			return true, nil
		}
		if !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return false, lastErr
}

// flattenCardText joins all card texts into a single string for hashing.
func flattenCardText(scan *scandoc.Scan) string {
	var sb strings.Builder
	for _, card := range scan.Cards {
		if sb.Len() > 0 {
			sb.WriteString("\n\f\n")
		}
		sb.WriteString(card.Text)
	}
	return sb.String()
}
