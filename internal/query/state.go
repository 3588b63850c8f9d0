package query

import "time"

// DefaultPageSize matches the original table view.
const DefaultPageSize = 10

// State is the current filter, sort and pagination configuration.
// The ledger owns one State and re-evaluates the pipeline after any change.
type State struct {
	Criteria Criteria
	SortKey  SortKey
	SortDir  Direction
	Page     int // 1-based
	PageSize int
}

// NewState returns the startup configuration: no filters, newest first,
// first page of ten.
func NewState() State {
	return State{
		Criteria: MatchAll(),
		SortKey:  SortByDate,
		SortDir:  Descending,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// SetSearch updates the text predicate and resets to the first page.
func (s *State) SetSearch(term string) {
	s.Criteria.Search = term
	s.Page = 1
}

// SetCategory updates the category predicate and resets to the first page.
func (s *State) SetCategory(category string) {
	s.Criteria.Category = category
	s.Page = 1
}

// SetPaymentType updates the payment type predicate and resets to the first page.
func (s *State) SetPaymentType(paymentType string) {
	s.Criteria.PaymentType = paymentType
	s.Page = 1
}

// SetDateRange updates the date predicate and resets to the first page.
// Either bound may be nil for an open-ended range.
func (s *State) SetDateRange(from, to *time.Time) {
	s.Criteria.DateFrom = from
	s.Criteria.DateTo = to
	s.Page = 1
}

// SortBy adopts the key. Re-sorting by the current key flips the direction;
// a new key resets the direction to ascending. Sorting never resets the page.
func (s *State) SortBy(key SortKey) {
	if !key.IsValid() {
		return
	}
	if s.SortKey == key && s.SortDir == Ascending {
		s.SortDir = Descending
		return
	}
	s.SortKey = key
	s.SortDir = Ascending
}

// SetPage navigates to the requested page. Values below 1 clamp to 1;
// clamping against totalPages happens at evaluation time, when the page
// count is known.
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// SetPageSize changes how many records one page holds and resets to the
// first page. Values below 1 are ignored.
func (s *State) SetPageSize(size int) {
	if size < 1 {
		return
	}
	s.PageSize = size
	s.Page = 1
}
