package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListContacts pages through the downstream contact store.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.StoreClient()
	if store == nil {
		jsonError(w, "no contact store configured", http.StatusServiceUnavailable)
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}

	contacts, err := store.ListContacts(r.Context(), limit, offset)
	if err != nil {
		jsonError(w, "failed to list contacts: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"contacts": contacts})
}

// handleDeleteContact removes one contact from the store.
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.StoreClient()
	if store == nil {
		jsonError(w, "no contact store configured", http.StatusServiceUnavailable)
		return
	}

	contactID := chi.URLParam(r, "contactID")
	if err := store.DeleteContact(r.Context(), contactID); err != nil {
		jsonError(w, "failed to delete contact: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": contactID})
}
