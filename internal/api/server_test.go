package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cardspark/cardex/internal/config"
	"github.com/cardspark/cardex/internal/extract"
	"github.com/cardspark/cardex/internal/pipeline"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		Port:               "0",
		CardexAPIKey:       testAPIKey,
		WorkerCount:        1,
		MaxQueueSize:       8,
		MaxConcurrentStore: 2,
		MaxUploadBytes:     1 << 20,
		JobTTL:             time.Hour,
		StatsWindow:        time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, nil, extract.NewStats(cfg.StatsWindow), log)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return NewServer(orch, log, cfg)
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_RejectsMissingAndWrongKey(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/extract", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/extract", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: expected 401, got %d", rec.Code)
	}
}

func TestExtract_Sync(t *testing.T) {
	s := newTestServer(t)

	payload := `{"text":"John Smith\nCEO at Acme Corp\njohn@acme.com\n555-0100"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(payload)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	fields, ok := body["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields object, got %v", body)
	}
	if fields["email"] != "john@acme.com" {
		t.Errorf("expected email, got %v", fields["email"])
	}
	if body["fields_found"].(float64) < 3 {
		t.Errorf("expected at least 3 fields found, got %v", body["fields_found"])
	}
}

func TestExtract_BadBody(t *testing.T) {
	s := newTestServer(t)
	req := authed(httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader("{not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestScanUpload_AndStatusPolling(t *testing.T) {
	s := newTestServer(t)

	buf, contentType := multipartUpload(t, "file", "expo.txt", "Jane Doe\nCTO at Nova Labs\njane@nova.io\n---\nBob Lee\nbob@lee.dev")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/scans", buf))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	jobID, _ := body["job_id"].(string)
	if jobID == "" {
		t.Fatalf("expected job_id in response, got %v", body)
	}

	deadline := time.Now().Add(5 * time.Second)
	var status map[string]any
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/scans/"+jobID+"/status", nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status poll: expected 200, got %d", rec.Code)
		}
		status = decodeBody(t, rec)
		if status["status"] == string(pipeline.StatusCompleted) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status["status"] != string(pipeline.StatusCompleted) {
		t.Fatalf("job did not complete in time, last status: %v", status)
	}

	results, ok := status["results"].([]any)
	if !ok || len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", status["results"])
	}
	first := results[0].(map[string]any)["fields"].(map[string]any)
	if first["email"] != "jane@nova.io" {
		t.Errorf("expected first card email, got %v", first["email"])
	}
}

func TestScanUpload_UnsupportedType(t *testing.T) {
	s := newTestServer(t)

	buf, contentType := multipartUpload(t, "file", "photo.png", "not really a png")
	req := authed(httptest.NewRequest(http.MethodPost, "/api/scans", buf))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestScanStatus_NotFound(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/scans/nope/status", nil)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestBatchScanUpload(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range []struct{ name, content string }{
		{"a.txt", "John Smith\njohn@acme.com"},
		{"b.png", "unsupported"},
	} {
		fw, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte(f.content))
	}
	mw.Close()

	req := authed(httptest.NewRequest(http.MethodPost, "/api/scans/batch", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	jobs, ok := decodeBody(t, rec)["jobs"].([]any)
	if !ok || len(jobs) != 2 {
		t.Fatalf("expected 2 job entries, got %v", jobs)
	}
	first := jobs[0].(map[string]any)
	if first["job_id"] == nil {
		t.Errorf("expected job_id for supported file, got %v", first)
	}
	second := jobs[1].(map[string]any)
	if second["error"] == nil {
		t.Errorf("expected error for unsupported file, got %v", second)
	}
}

func TestContacts_UnavailableWithoutStore(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/contacts", nil)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("list: expected 503, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/api/contacts/abc", nil)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("delete: expected 503, got %d", rec.Code)
	}
}

func TestExtractStats_Endpoint(t *testing.T) {
	s := newTestServer(t)

	// Record something first via the sync endpoint.
	req := authed(httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(`{"text":"Jane Doe\njane@nova.io"}`)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extract: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/stats/extract", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	stats, ok := body["stats"].(map[string]any)
	if !ok {
		t.Fatalf("expected stats object, got %v", body)
	}
	if stats["count"].(float64) < 1 {
		t.Errorf("expected at least one recorded extraction, got %v", stats["count"])
	}
}
