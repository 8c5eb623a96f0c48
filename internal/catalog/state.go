package catalog

// Facet identifies one filter picker.
type Facet string

const (
	FacetCategory Facet = "category"
	FacetTag      Facet = "tag"
	FacetStatus   Facet = "status"
)

// FilterState re-expresses the client-side filter controller as an explicit
// value object: a committed FilterRequest plus an optional open facet picker
// with a pending selection. Transitions are pure; the caller performs the
// single navigation/refetch per commit using Committed().Values().
type FilterState struct {
	committed FilterRequest
	open      Facet
	pending   []string
	// SingleCategory mirrors the library surface, which caps the category
	// facet at one selection. The admin surface leaves it false.
	SingleCategory bool
}

func NewFilterState(committed FilterRequest) FilterState {
	if committed.PageSize <= 0 {
		committed.PageSize = PageSize
	}
	if committed.Sort == "" {
		committed.Sort = SortRecent
	}
	if committed.Page < 1 {
		committed.Page = 1
	}
	return FilterState{committed: committed}
}

func (s FilterState) Committed() FilterRequest { return s.committed }

// OpenFacet enters the picker for one facet, seeding the pending selection
// with a copy of the committed one.
func (s FilterState) OpenFacet(f Facet) FilterState {
	next := s
	next.open = f
	switch f {
	case FacetCategory:
		sel := append([]string(nil), s.committed.Categories...)
		if s.SingleCategory {
			sel = ensureSingle(sel)
		}
		next.pending = sel
	case FacetTag:
		next.pending = append([]string(nil), s.committed.Tags...)
	case FacetStatus:
		next.pending = append([]string(nil), s.committed.Statuses...)
	}
	return next
}

func (s FilterState) OpenedFacet() Facet { return s.open }
func (s FilterState) Pending() []string  { return s.pending }
func (s FilterState) ModalOpen() bool    { return s.open != "" }

// SetPending replaces the pending selection while the picker is open.
func (s FilterState) SetPending(values []string) FilterState {
	if s.open == "" {
		return s
	}
	next := s
	next.pending = append([]string(nil), values...)
	return next
}

// Cancel discards the pending selection; the committed state is untouched.
func (s FilterState) Cancel() FilterState {
	next := s
	next.open = ""
	next.pending = nil
	return next
}

// Apply commits the pending selection for the open facet and closes the
// picker. Facet changes reset the page to 1.
func (s FilterState) Apply() FilterState {
	if s.open == "" {
		return s
	}
	next := s.Cancel()
	sel := sanitizeFacet(s.pending)
	switch s.open {
	case FacetCategory:
		if s.SingleCategory {
			sel = ensureSingle(sel)
		}
		next.committed.Categories = sel
	case FacetTag:
		next.committed.Tags = sel
	case FacetStatus:
		next.committed.Statuses = sel
	}
	next.committed.Page = 1
	return next
}

// CommitSearch commits a trimmed search term (explicit submit only) and
// resets the page.
func (s FilterState) CommitSearch(term string) FilterState {
	next := s
	next.committed.Search = SanitizeSearch(term)
	next.committed.Page = 1
	return next
}

// CommitSort changes the sort order without resetting the page.
func (s FilterState) CommitSort(order SortOrder) FilterState {
	next := s
	if order == SortOldest {
		next.committed.Sort = SortOldest
	} else {
		next.committed.Sort = SortRecent
	}
	return next
}

// CommitPage moves to an explicit page, leaving every other facet alone.
func (s FilterState) CommitPage(page int) FilterState {
	next := s
	if page < 1 {
		page = 1
	}
	next.committed.Page = page
	return next
}

// ClearFacet drops every selection for one facet and resets the page.
func (s FilterState) ClearFacet(f Facet) FilterState {
	next := s
	switch f {
	case FacetCategory:
		next.committed.Categories = nil
	case FacetTag:
		next.committed.Tags = nil
	case FacetStatus:
		next.committed.Statuses = nil
	}
	next.committed.Page = 1
	return next
}
