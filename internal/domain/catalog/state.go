package catalog

// State is a point-in-time snapshot of the catalog store.
//
// Items, Total, Skip, Limit and Query always describe one server response
// as a unit: a successful fetch replaces them together, a failed fetch
// leaves them untouched (stale-on-error). Selected is independent of the
// page list and is fetched fresh by id, never derived from Items.
type State struct {
	Items      []Product
	Total      int
	Skip       int
	Limit      int
	Query      string
	Selected   *Product
	Categories []Category
	Loading    bool
	Err        string
}

// CurrentPage is the 1-based page number of the current cursor.
func (s State) CurrentPage() int {
	if s.Limit <= 0 {
		return 1
	}
	return s.Skip/s.Limit + 1
}

// TotalPages is the number of pages for the current query's total.
func (s State) TotalPages() int {
	if s.Limit <= 0 || s.Total <= 0 {
		return 0
	}
	return (s.Total + s.Limit - 1) / s.Limit
}

// HasNext reports whether a further page exists past the current cursor.
func (s State) HasNext() bool {
	return s.Skip+s.Limit < s.Total
}

// HasPrev reports whether the cursor can move back.
func (s State) HasPrev() bool {
	return s.Skip > 0
}

// NextSkip returns the offset of the next page. When no next page exists
// the current offset is returned unchanged.
func (s State) NextSkip() int {
	if !s.HasNext() {
		return s.Skip
	}
	return s.Skip + s.Limit
}

// PrevSkip returns the offset of the previous page, clamped at zero.
func (s State) PrevSkip() int {
	prev := s.Skip - s.Limit
	if prev < 0 {
		prev = 0
	}
	return prev
}

func (s State) clone() State {
	out := s
	if s.Items != nil {
		out.Items = make([]Product, len(s.Items))
		copy(out.Items, s.Items)
	}
	if s.Categories != nil {
		out.Categories = make([]Category, len(s.Categories))
		copy(out.Categories, s.Categories)
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	return out
}
