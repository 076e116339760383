package table

// ApplyPagination returns the records on the requested page.
//
// The page number is not clamped: a page past the end is empty. Callers
// should reset to page 1 whenever the search or filters change. A page number
// or size below one returns ErrInvalidPage.
func (e *Engine) ApplyPagination(records []Record, page PageState) ([]Record, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	if page.Number-1 > len(records)/page.Size {
		return []Record{}, nil
	}
	start := (page.Number - 1) * page.Size
	if start >= len(records) {
		return []Record{}, nil
	}
	end := start + min(page.Size, len(records)-start)

	return cloneRecords(records[start:end]), nil
}
