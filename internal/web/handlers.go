package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/dashview/internal/core"
	"github.com/JonMunkholm/dashview/internal/logging"
	"github.com/JonMunkholm/dashview/internal/table"
	"github.com/JonMunkholm/dashview/internal/web/templates"
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var groups []templates.ResourceGroup
	for _, groupName := range core.Groups() {
		defs := core.ByGroup(groupName)
		cards := make([]templates.ResourceCard, len(defs))
		for i, def := range defs {
			card := templates.ResourceCard{Info: def.Info, Total: -1}

			// Counts are best effort; an unreachable source must not break the page.
			if sum, err := s.service.Summary(ctx, def.Info.Key); err == nil {
				card.Total = sum.Total
				card.FetchedAt = &sum.FetchedAt
			} else {
				logging.FromContext(ctx).Warn("dashboard summary failed", "resource", def.Info.Key, "error", err)
			}
			cards[i] = card
		}
		groups = append(groups, templates.ResourceGroup{Name: groupName, Resources: cards})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Dashboard(groups).Render(ctx, w)
}

// handleTableView renders a resource's table page, or just the table for
// HTMX requests.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")

	view, err := s.viewFromRequest(r, resource)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := templates.TableData{
		View:        view,
		SelectionID: r.URL.Query().Get("selection"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if isHTMX(r) {
		templates.TablePartial(data).Render(r.Context(), w)
		return
	}

	presets, err := s.service.ListPresets(r.Context(), resource)
	if err != nil {
		logging.FromContext(r.Context()).Warn("list presets failed", "resource", resource, "error", err)
	}
	data.Presets = presets
	templates.TableView(data).Render(r.Context(), w)
}

// viewFromRequest computes the view named by the URL: a saved view when
// preset is set, otherwise the query parameters.
func (s *Server) viewFromRequest(r *http.Request, resource string) (*core.ViewResult, error) {
	ctx := r.Context()
	selectionID := r.URL.Query().Get("selection")

	q, err := parseQuery(r)
	if err != nil {
		return nil, err
	}

	if presetID := r.URL.Query().Get("preset"); presetID != "" {
		return s.service.ApplyPreset(ctx, resource, presetID, q.Page, selectionID)
	}
	return s.service.View(ctx, resource, q, selectionID)
}

// handleListResources returns all resources organized by group.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.ListResourcesByGroup())
}

// handleColumns describes a resource's columns.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.service.Columns(chi.URLParam(r, "resource"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, cols)
}

// handleView returns one page of a resource as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	view, err := s.viewFromRequest(r, chi.URLParam(r, "resource"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, view)
}

// handleSummary returns totals over every record of a resource.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Summary(r.Context(), chi.URLParam(r, "resource"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, sum)
}

// defaultDistinctLimit caps filter option lists unless limit is given.
const defaultDistinctLimit = 200

// handleDistinct returns the distinct values of a column for filter options.
func (s *Server) handleDistinct(w http.ResponseWriter, r *http.Request) {
	values, err := s.service.Distinct(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "column"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	limit := parseIntParam(r, "limit", defaultDistinctLimit)
	truncated := len(values) > limit
	if truncated {
		values = values[:limit]
	}
	writeJSON(w, map[string]any{
		"values":    values,
		"truncated": truncated,
	})
}

// handleRefresh refetches a resource's records.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	sum, err := s.service.Refresh(r.Context(), chi.URLParam(r, "resource"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, sum)
}

// handleStatus reports cache and fetch limiter usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Status())
}

// presetRequest is the body for creating or updating a preset.
type presetRequest struct {
	Name  string       `json:"name"`
	Query *table.Query `json:"query"`
}

// query returns the body's query, falling back to the URL parameters.
func (p presetRequest) query(r *http.Request) (table.Query, error) {
	if p.Query != nil {
		return *p.Query, nil
	}
	return parseQuery(r)
}
