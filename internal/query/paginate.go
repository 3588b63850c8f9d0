package query

import "github.com/srikolla28/trackfina/internal/core"

// Paginate slices an ordered collection into the requested fixed-size page.
//
// totalPages is max(1, ceil(len/size)), so an empty collection still reports
// one page. A page outside [1, totalPages] yields an empty slice; keeping the
// requested page in range is the caller's job, this is only a guard.
func Paginate(purchases []core.Purchase, page, size int) (items []core.Purchase, totalPages int) {
	if size < 1 {
		return nil, 1
	}
	totalPages = (len(purchases) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		return nil, totalPages
	}
	start := (page - 1) * size
	end := start + size
	if end > len(purchases) {
		end = len(purchases)
	}
	if start >= len(purchases) {
		return nil, totalPages
	}
	items = make([]core.Purchase, end-start)
	copy(items, purchases[start:end])
	return items, totalPages
}
