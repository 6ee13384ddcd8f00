package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/cardspark/cardex/internal/extract"
)

// JobStatus represents the state of a scan processing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single scan upload.
type Job struct {
	mu sync.Mutex

	ID     string `json:"job_id"`
	ScanID string `json:"scan_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	results  []CardResult
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalCards     int      `json:"total_cards"`
	CardsProcessed int      `json:"cards_processed"`
	FieldsFound    int      `json:"fields_found"`
	ContactsStored int      `json:"contacts_stored"`
	Errors         []string `json:"errors"`
}

// CardResult is the extraction outcome for one card in the scan.
type CardResult struct {
	Page   int            `json:"page"`
	Fields extract.Fields `json:"fields"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindByContentHash returns a finished job with the same content hash,
// for duplicate-upload detection within the retention window.
func (s *JobStore) FindByContentHash(hash, excludeID string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if id == excludeID {
			continue
		}
		job.mu.Lock()
		match := job.ContentHash == hash &&
			(job.Status == StatusCompleted || job.Status == StatusPartial)
		job.mu.Unlock()
		if match {
			return job
		}
	}
	return nil
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetContentHash records the parsed-content hash used for dedup.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrCardsProcessed atomically increments cards processed.
func (j *Job) IncrCardsProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.CardsProcessed++
	j.UpdatedAt = time.Now()
}

// AddCounts records found-field and stored-contact counts.
func (j *Job) AddCounts(fields, stored int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FieldsFound += fields
	j.Progress.ContactsStored += stored
	j.UpdatedAt = time.Now()
}

// SetTotalCards records total card count.
func (j *Job) SetTotalCards(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalCards = n
	j.UpdatedAt = time.Now()
}

// AddResult appends one card's extraction outcome.
func (j *Job) AddResult(r CardResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.results = append(j.results, r)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string       `json:"job_id"`
	ScanID   string       `json:"scan_id"`
	Status   JobStatus    `json:"status"`
	Phase    string       `json:"phase"`
	Filename string       `json:"filename"`
	Title    string       `json:"title"`
	Progress Progress     `json:"progress"`
	Results  []CardResult `json:"results"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	results := j.results
	if results == nil {
		results = []CardResult{}
	}
	return JobSnapshot{
		ID:       j.ID,
		ScanID:   j.ScanID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			TotalCards:     j.Progress.TotalCards,
			CardsProcessed: j.Progress.CardsProcessed,
			FieldsFound:    j.Progress.FieldsFound,
			ContactsStored: j.Progress.ContactsStored,
			Errors:         errs,
		},
		Results: results,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
