package query

import (
	"sort"

	"github.com/srikolla28/trackfina/internal/core"
)

// SortKey names a sortable purchase field.
type SortKey string

const (
	SortByItem     SortKey = "item"
	SortByCategory SortKey = "category"
	SortByPrice    SortKey = "price"
	SortByType     SortKey = "type"
	SortByDate     SortKey = "date"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// IsValid returns true if the key names a sortable field.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByItem, SortByCategory, SortByPrice, SortByType, SortByDate:
		return true
	default:
		return false
	}
}

// Sort returns a new slice ordered by the chosen key and direction.
// The sort is stable: records with equal keys keep their relative input
// order, which makes pagination deterministic. An unknown key returns the
// input order unchanged.
func Sort(purchases []core.Purchase, key SortKey, dir Direction) []core.Purchase {
	out := make([]core.Purchase, len(purchases))
	copy(out, purchases)

	less := lessFunc(key)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key SortKey) func(a, b core.Purchase) bool {
	switch key {
	case SortByItem:
		return func(a, b core.Purchase) bool { return a.Item < b.Item }
	case SortByCategory:
		return func(a, b core.Purchase) bool { return a.Category < b.Category }
	case SortByPrice:
		return func(a, b core.Purchase) bool { return a.Price.Cents < b.Price.Cents }
	case SortByType:
		return func(a, b core.Purchase) bool { return a.Type < b.Type }
	case SortByDate:
		return func(a, b core.Purchase) bool { return a.Date.Before(b.Date) }
	default:
		return nil
	}
}
