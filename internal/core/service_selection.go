package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/dashview/internal/table"
)

// CreateSelection starts a selection session for a resource. An empty mode
// uses the resource's configured mode.
func (s *Service) CreateSelection(resource string, mode table.SelectionMode) (SelectionSession, error) {
	def, err := s.definition(resource)
	if err != nil {
		return SelectionSession{}, err
	}
	if mode == "" {
		mode = def.Info.Selection
	}
	return s.selections.Create(resource, mode)
}

// GetSelection returns a session.
func (s *Service) GetSelection(id string) (SelectionSession, error) {
	return s.selections.Get(id)
}

// ToggleSelection flips one key.
func (s *Service) ToggleSelection(id string, key table.Key) (SelectionSession, error) {
	return s.selections.Toggle(id, key)
}

// SetVisibleSelection checks or unchecks the given keys.
func (s *Service) SetVisibleSelection(id string, visible []table.Key, checked bool) (SelectionSession, error) {
	return s.selections.SetVisible(id, visible, checked)
}

// SelectPage checks or unchecks every record on the page q produces for the
// session's resource. Records on other pages keep their state.
func (s *Service) SelectPage(ctx context.Context, id string, q table.Query, checked bool) (SelectionSession, error) {
	sess, err := s.selections.Get(id)
	if err != nil {
		return SelectionSession{}, err
	}

	view, err := s.View(ctx, sess.Resource, q, "")
	if err != nil {
		return SelectionSession{}, err
	}
	return s.selections.SetVisible(id, view.Keys, checked)
}

// ClearSelection empties a session.
func (s *Service) ClearSelection(id string) (SelectionSession, error) {
	return s.selections.Clear(id)
}

// DeleteSelection ends a session.
func (s *Service) DeleteSelection(id string) error {
	return s.selections.Delete(id)
}

// selectionState describes a session relative to the keys on one page.
// A session belonging to another resource is reported as not found.
func (s *Service) selectionState(resource, id string, visible []table.Key) (*SelectionState, error) {
	sess, err := s.selections.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.Resource != resource {
		return nil, fmt.Errorf("%w: session %s belongs to %s", ErrSessionNotFound, id, sess.Resource)
	}

	selected := []table.Key{}
	for _, k := range visible {
		if sess.Selection.Has(k) {
			selected = append(selected, k)
		}
	}
	all, some := table.VisibleState(sess.Selection, visible)

	return &SelectionState{
		ID:          sess.ID,
		Count:       sess.Selection.Len(),
		Selected:    selected,
		AllVisible:  all,
		SomeVisible: some,
	}, nil
}
