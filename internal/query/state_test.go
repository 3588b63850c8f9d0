package query

import (
	"testing"
	"time"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	if s.SortKey != SortByDate || s.SortDir != Descending {
		t.Errorf("default sort should be date descending, got %s %s", s.SortKey, s.SortDir)
	}
	if s.Page != 1 || s.PageSize != DefaultPageSize {
		t.Errorf("default page = %d size = %d", s.Page, s.PageSize)
	}
	if s.Criteria.Category != All || s.Criteria.PaymentType != All {
		t.Errorf("default criteria should match everything: %+v", s.Criteria)
	}
}

func TestStateFilterChangesResetPage(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name  string
		apply func(s *State)
	}{
		{"search", func(s *State) { s.SetSearch("gas") }},
		{"category", func(s *State) { s.SetCategory("Groceries") }},
		{"payment type", func(s *State) { s.SetPaymentType("Credit") }},
		{"date range", func(s *State) { s.SetDateRange(&now, nil) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewState()
			s.SetPage(4)
			tc.apply(&s)
			if s.Page != 1 {
				t.Fatalf("%s change must reset the page, got %d", tc.name, s.Page)
			}
		})
	}
}

func TestStateSortByToggle(t *testing.T) {
	s := NewState()
	s.SetPage(3)

	s.SortBy(SortByPrice) // new key adopts ascending
	if s.SortKey != SortByPrice || s.SortDir != Ascending {
		t.Fatalf("new key should sort ascending, got %s %s", s.SortKey, s.SortDir)
	}
	s.SortBy(SortByPrice) // same key flips
	if s.SortDir != Descending {
		t.Fatalf("same key should flip direction, got %s", s.SortDir)
	}
	s.SortBy(SortByPrice) // and back
	if s.SortDir != Ascending {
		t.Fatalf("third toggle should flip back, got %s", s.SortDir)
	}
	s.SortBy(SortByItem)
	if s.SortKey != SortByItem || s.SortDir != Ascending {
		t.Fatalf("switching keys should reset to ascending, got %s %s", s.SortKey, s.SortDir)
	}

	if s.Page != 3 {
		t.Fatalf("sorting must not reset the page, got %d", s.Page)
	}

	s.SortBy(SortKey("bogus"))
	if s.SortKey != SortByItem {
		t.Fatalf("invalid key must be ignored, got %s", s.SortKey)
	}
}

func TestStateSetPageClampsBelowOne(t *testing.T) {
	s := NewState()
	s.SetPage(0)
	if s.Page != 1 {
		t.Fatalf("page below 1 should clamp to 1, got %d", s.Page)
	}
}

func TestStateSetPageSize(t *testing.T) {
	s := NewState()
	s.SetPage(4)

	s.SetPageSize(25)
	if s.PageSize != 25 {
		t.Fatalf("PageSize = %d, want 25", s.PageSize)
	}
	if s.Page != 1 {
		t.Fatalf("changing the page size must reset the page, got %d", s.Page)
	}

	s.SetPageSize(0)
	if s.PageSize != 25 {
		t.Fatalf("invalid size must be ignored, got %d", s.PageSize)
	}
}
