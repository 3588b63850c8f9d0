package query

import (
	"testing"

	"github.com/srikolla28/trackfina/internal/core"
)

func TestPaginateSinglePage(t *testing.T) {
	in := samplePurchases()
	items, totalPages := Paginate(in, 1, DefaultPageSize)
	if totalPages != 1 {
		t.Fatalf("7 records at page size 10 should give 1 page, got %d", totalPages)
	}
	if !equalIDs(ids(items), ids(in)) {
		t.Fatalf("page 1 should contain all 7 records, got %v", ids(items))
	}
}

func TestPaginateReconstruction(t *testing.T) {
	in := samplePurchases()
	const size = 3

	var all []core.Purchase
	_, totalPages := Paginate(in, 1, size)
	if totalPages != 3 {
		t.Fatalf("7 records at page size 3 should give 3 pages, got %d", totalPages)
	}
	for page := 1; page <= totalPages; page++ {
		items, _ := Paginate(in, page, size)
		all = append(all, items...)
	}
	if !equalIDs(ids(all), ids(in)) {
		t.Fatalf("concatenated pages must reconstruct the input, got %v", ids(all))
	}
}

func TestPaginateEmpty(t *testing.T) {
	items, totalPages := Paginate(nil, 1, DefaultPageSize)
	if totalPages != 1 {
		t.Fatalf("empty input should still report 1 page, got %d", totalPages)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %d items", len(items))
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	in := samplePurchases()
	cases := []int{0, -1, 2, 99}
	for _, page := range cases {
		items, totalPages := Paginate(in, page, DefaultPageSize)
		if totalPages != 1 {
			t.Fatalf("page %d: totalPages = %d, want 1", page, totalPages)
		}
		if len(items) != 0 {
			t.Fatalf("page %d: out-of-range request should yield an empty slice", page)
		}
	}
}

func TestPaginateLastPartialPage(t *testing.T) {
	in := samplePurchases()
	items, totalPages := Paginate(in, 3, 3)
	if totalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", totalPages)
	}
	if !equalIDs(ids(items), []string{"7"}) {
		t.Fatalf("last page should hold the single remaining record, got %v", ids(items))
	}
}
