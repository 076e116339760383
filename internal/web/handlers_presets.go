package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListPresets returns a resource's saved views.
func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context(), chi.URLParam(r, "resource"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, presets)
}

// handleCreatePreset saves a view. The query comes from the body or, when
// the body has none, from the URL parameters.
func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	q, err := req.query(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	preset, err := s.service.CreatePreset(r.Context(), chi.URLParam(r, "resource"), req.Name, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, preset)
}

// handleGetPreset returns a single saved view by ID.
func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := s.service.GetPreset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, preset)
}

// handleUpdatePreset renames a saved view and replaces its query.
func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	q, err := req.query(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	preset, err := s.service.UpdatePreset(r.Context(), chi.URLParam(r, "id"), req.Name, q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, preset)
}

// handleDeletePreset removes a saved view.
func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeletePreset(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
