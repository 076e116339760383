package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/dashview/internal/table"
)

// View runs a query against a resource's records and returns one page.
//
// A zero page number means page 1 and a zero page size means the resource's
// default. Sizes above MaxPageSize are clamped. When q has no sort the
// resource's default sort applies. A non-empty selectionID attaches that
// session's state for the returned page.
func (s *Service) View(ctx context.Context, resource string, q table.Query, selectionID string) (*ViewResult, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	e, err := s.engine(def)
	if err != nil {
		return nil, err
	}

	q = s.prepareQuery(def, q)

	snap, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}

	result, err := s.compute(def, e, snap, q)
	if err != nil {
		return nil, err
	}

	if selectionID != "" {
		state, err := s.selectionState(resource, selectionID, result.Keys)
		if err != nil {
			return nil, err
		}
		result.Selection = state
	}
	return &result, nil
}

// compute runs the pipeline or returns a memoized result for the same
// records and query.
func (s *Service) compute(def ResourceDefinition, e *table.Engine, snap *snapshot, q table.Query) (ViewResult, error) {
	fp, err := json.Marshal(q)
	if err != nil {
		return ViewResult{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	memoKey := fmt.Sprintf("%s|%d|%s", def.Info.Key, snap.generation, fp)

	if v, ok := s.views.Get(memoKey); ok {
		return v, nil
	}

	view, err := e.Run(snap.records, q)
	if err != nil {
		return ViewResult{}, err
	}

	result := ViewResult{
		Resource:   def.Info,
		Columns:    columnInfos(def.Columns),
		Rows:       view.Records,
		Cells:      cells(def.Columns, view.Records),
		Keys:       view.Keys,
		Page:       view.Page,
		Aggregates: view.Aggregates,
		Query:      q,
		FetchedAt:  snap.fetchedAt,
	}
	s.views.Add(memoKey, result)
	return result, nil
}

// cells reads each column's value from each record, so accessors and
// field paths resolve the same way for clients as for the pipeline.
func cells(cols []table.Column, records []table.Record) [][]any {
	out := make([][]any, len(records))
	for i, r := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.Value(r)
		}
		out[i] = row
	}
	return out
}

// prepareQuery fills in page and sort defaults.
func (s *Service) prepareQuery(def ResourceDefinition, q table.Query) table.Query {
	if q.Page.Number == 0 {
		q.Page.Number = 1
	}
	if q.Page.Size == 0 {
		q.Page.Size = def.Info.PageSize
		if q.Page.Size <= 0 {
			q.Page.Size = s.opts.DefaultPageSize
		}
	}
	if q.Page.Size > s.opts.MaxPageSize {
		q.Page.Size = s.opts.MaxPageSize
	}
	if !q.Sort.Active() && len(q.ThenBy) == 0 {
		q.Sort = def.Info.DefaultSort
	}
	return q
}

// Distinct returns the distinct values of a column, for filter option lists.
func (s *Service) Distinct(ctx context.Context, resource, column string) ([]string, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	e, err := s.engine(def)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Column(column); !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, resource, column)
	}

	snap, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}
	return e.Distinct(snap.records, column), nil
}

// Summary returns totals over every record of a resource.
func (s *Service) Summary(ctx context.Context, resource string) (*Summary, error) {
	def, err := s.definition(resource)
	if err != nil {
		return nil, err
	}
	snap, err := s.load(ctx, def)
	if err != nil {
		return nil, err
	}
	return s.summarize(def, snap)
}
