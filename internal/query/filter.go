// Package query implements the deterministic pipeline that turns the raw
// purchase collection into the visible page of results: predicate filtering,
// stable sorting, pagination and aggregate totals. Every function here is a
// pure transform over an in-memory snapshot; none mutate their input.
package query

import (
	"strings"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

// All is the wildcard value for the category and payment type predicates.
const All = "all"

// Criteria is the conjunction of up to four independent predicates.
// Each predicate defaults to match-everything when unset.
type Criteria struct {
	Search      string     // case-insensitive substring match on Item
	Category    string     // exact category label, or All
	PaymentType string     // exact payment type label, or All
	DateFrom    *time.Time // inclusive, day-truncated lower bound; nil is unbounded
	DateTo      *time.Time // inclusive, end-of-day upper bound; nil is unbounded
}

// MatchAll returns criteria with every predicate unset.
func MatchAll() Criteria {
	return Criteria{Category: All, PaymentType: All}
}

// Matches reports whether the purchase passes all active predicates.
func (c Criteria) Matches(p core.Purchase) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(p.Item), strings.ToLower(c.Search)) {
		return false
	}
	if c.Category != "" && c.Category != All && string(p.Category) != c.Category {
		return false
	}
	if c.PaymentType != "" && c.PaymentType != All && string(p.Type) != c.PaymentType {
		return false
	}
	if c.DateFrom != nil && p.Date.Before(startOfDay(*c.DateFrom)) {
		return false
	}
	if c.DateTo != nil && p.Date.After(endOfDay(*c.DateTo)) {
		return false
	}
	return true
}

// Filter returns the order-preserving subsequence of purchases that pass
// every active predicate. The input slice is never modified.
func Filter(purchases []core.Purchase, c Criteria) []core.Purchase {
	out := make([]core.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// startOfDay truncates t to 00:00:00.000 of its calendar day.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay extends t to the last representable instant of its calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
