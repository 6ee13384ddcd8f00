package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cardspark/cardex/internal/extract"
)

// maxExtractBodyBytes bounds the synchronous extract endpoint; card
// texts are small, anything bigger belongs on the upload path.
const maxExtractBodyBytes = 1 << 20

// handleExtract runs field extraction synchronously on a single card text.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxExtractBodyBytes)

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	fields := extract.Extract(req.Text)
	s.orchestrator.Stats().Record(time.Since(start), fields)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"fields":       fields,
		"fields_found": fields.FilledCount(),
	})
}
