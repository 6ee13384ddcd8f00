package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cardspark/cardex/internal/extract"
)

func newTestWorker(jobs *JobStore) *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(jobs, nil, extract.NewStats(time.Hour), log, false, 2)
}

func newTestJob(filename, content string) *Job {
	job := &Job{
		ID:        NewJobID(),
		ScanID:    NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	job.SetFileData([]byte(content))
	return job
}

func TestWorker_ProcessTextScan(t *testing.T) {
	jobs := NewJobStore(time.Hour)
	w := newTestWorker(jobs)

	job := newTestJob("batch.txt", "John Smith\nCEO at Acme Corp\njohn@acme.com\n---\nJane Doe\njane@nova.io\n555-0100")
	jobs.Put(job)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status %q, got %q (errors: %v)", StatusCompleted, snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalCards != 2 {
		t.Errorf("expected 2 total cards, got %d", snap.Progress.TotalCards)
	}
	if snap.Progress.CardsProcessed != 2 {
		t.Errorf("expected 2 cards processed, got %d", snap.Progress.CardsProcessed)
	}
	if len(snap.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(snap.Results))
	}
	if snap.Results[0].Fields.Email != "john@acme.com" {
		t.Errorf("expected first card email, got %q", snap.Results[0].Fields.Email)
	}
	if snap.Results[1].Fields.Phone == "" {
		t.Errorf("expected second card phone, got empty")
	}
	if snap.Progress.FieldsFound == 0 {
		t.Error("expected nonzero fields found")
	}
}

func TestWorker_ProcessUnsupportedFormat(t *testing.T) {
	jobs := NewJobStore(time.Hour)
	w := newTestWorker(jobs)

	job := newTestJob("scan.png", "binary")
	jobs.Put(job)
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, job.Snapshot().Status)
	}
}

func TestWorker_ProcessEmptyScan(t *testing.T) {
	jobs := NewJobStore(time.Hour)
	w := newTestWorker(jobs)

	job := newTestJob("empty.txt", "   \n\n---\n")
	jobs.Put(job)
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected an error explaining the failure")
	}
}

func TestWorker_DuplicateScanSkipped(t *testing.T) {
	jobs := NewJobStore(time.Hour)
	w := newTestWorker(jobs)
	content := "John Smith\njohn@acme.com"

	first := newTestJob("a.txt", content)
	jobs.Put(first)
	w.Process(context.Background(), first)
	if first.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected first job completed, got %q", first.Snapshot().Status)
	}

	second := newTestJob("b.txt", content)
	jobs.Put(second)
	w.Process(context.Background(), second)
	if second.Snapshot().Status != StatusDupSkipped {
		t.Errorf("expected second job %q, got %q", StatusDupSkipped, second.Snapshot().Status)
	}
}

func TestWorker_TitleOverride(t *testing.T) {
	jobs := NewJobStore(time.Hour)
	w := newTestWorker(jobs)

	job := newTestJob("scan.txt", "Jane Doe\njane@nova.io")
	job.Title = "Expo Day 1"
	jobs.Put(job)
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", job.Snapshot().Status)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(context.Canceled) {
		t.Error("context.Canceled should not be retryable")
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	prev := time.Duration(0)
	for attempt := range 3 {
		d := Backoff(attempt)
		if d < time.Duration(1<<uint(attempt))*time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d <= prev/4 {
			t.Errorf("attempt %d: backoff %v did not grow from %v", attempt, d, prev)
		}
		prev = d
	}
	if d := Backoff(10); d > 45*time.Second {
		t.Errorf("expected capped backoff, got %v", d)
	}
}
