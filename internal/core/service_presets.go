package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/dashview/internal/table"
)

// ListPresets returns the saved views of a resource, sorted by name.
func (s *Service) ListPresets(ctx context.Context, resource string) ([]Preset, error) {
	if _, err := s.definition(resource); err != nil {
		return nil, err
	}
	return s.presets.List(ctx, resource)
}

// CreatePreset saves q under name for a resource.
func (s *Service) CreatePreset(ctx context.Context, resource, name string, q table.Query) (*Preset, error) {
	if _, err := s.definition(resource); err != nil {
		return nil, err
	}
	return s.presets.Create(ctx, Preset{Resource: resource, Name: name, Query: q})
}

// GetPreset returns a saved view by ID.
func (s *Service) GetPreset(ctx context.Context, id string) (*Preset, error) {
	return s.presets.Get(ctx, id)
}

// UpdatePreset renames a saved view and replaces its query.
func (s *Service) UpdatePreset(ctx context.Context, id, name string, q table.Query) (*Preset, error) {
	cur, err := s.presets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cur.Name = name
	cur.Query = q
	return s.presets.Update(ctx, *cur)
}

// DeletePreset removes a saved view.
func (s *Service) DeletePreset(ctx context.Context, id string) error {
	return s.presets.Delete(ctx, id)
}

// ApplyPreset shows a saved view of resource. page overrides the page number
// and, when set, the saved page size. A preset saved for another resource is
// reported as not found.
func (s *Service) ApplyPreset(ctx context.Context, resource, id string, page table.PageState, selectionID string) (*ViewResult, error) {
	p, err := s.presets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Resource != resource {
		return nil, fmt.Errorf("%w: %s is saved for %s", ErrPresetNotFound, id, p.Resource)
	}

	q := p.Query
	q.Page.Number = page.Number
	if page.Size != 0 {
		q.Page.Size = page.Size
	}
	return s.View(ctx, p.Resource, q, selectionID)
}
