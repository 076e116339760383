package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/table"
)

// handleCreateSelection starts a selection session.
// Body: {"resource": "staff", "mode": "single"}; mode is optional.
func (s *Server) handleCreateSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resource string              `json:"resource"`
		Mode     table.SelectionMode `json:"mode"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Resource == "" {
		req.Resource = r.URL.Query().Get("resource")
	}

	sess, err := s.service.CreateSelection(req.Resource, req.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sess)
}

// handleGetSelection returns a session.
func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	s.respondSelection(w, r)(s.service.GetSelection(chi.URLParam(r, "id")))
}

// handleDeleteSelection ends a session.
func (s *Server) handleDeleteSelection(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSelection(chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleSelection flips one key. Body: {"key": "42"}.
func (s *Server) handleToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key table.Key `json:"key"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		req.Key = table.Key(r.FormValue("key"))
	}
	if req.Key == "" {
		s.respondError(w, r, core.ErrInvalidQuery, http.StatusBadRequest)
		return
	}

	s.respondSelection(w, r)(s.service.ToggleSelection(chi.URLParam(r, "id"), req.Key))
}

// handleSelectVisible checks or unchecks a page of records.
// Body: {"checked": true, "keys": ["1", "2"]}. Without keys the page is the
// one the URL's view parameters produce.
func (s *Server) handleSelectVisible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Checked *bool       `json:"checked"`
		Keys    []table.Key `json:"keys"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	checked := true
	if req.Checked != nil {
		checked = *req.Checked
	} else if b, err := strconv.ParseBool(r.FormValue("checked")); err == nil {
		checked = b
	}
	id := chi.URLParam(r, "id")

	if req.Keys != nil {
		s.respondSelection(w, r)(s.service.SetVisibleSelection(id, req.Keys, checked))
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	s.respondSelection(w, r)(s.service.SelectPage(r.Context(), id, q, checked))
}

// handleClearSelection empties a session.
func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.respondSelection(w, r)(s.service.ClearSelection(chi.URLParam(r, "id")))
}

// respondSelection writes a session result or its error.
func (s *Server) respondSelection(w http.ResponseWriter, r *http.Request) func(core.SelectionSession, error) {
	return func(sess core.SelectionSession, err error) {
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, sess)
	}
}
