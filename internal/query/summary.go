package query

import "github.com/srikolla28/trackfina/internal/core"

// Summary holds the aggregate totals shown on the dashboard.
type Summary struct {
	IncomeCents   int64
	ExpensesCents int64
	BalanceCents  int64
}

// Summarize computes income, expenses and balance over the given records.
//
// The dashboard summary always runs over the full, unfiltered record set:
// active filters narrow the table view only, never the top-level totals.
// Callers must not feed this a filtered collection.
func Summarize(purchases []core.Purchase) Summary {
	var s Summary
	for _, p := range purchases {
		switch {
		case p.Type == core.Deposit:
			s.IncomeCents += p.Price.Cents
		case p.Type.IsOutflow():
			s.ExpensesCents += p.Price.Cents
		}
	}
	s.BalanceCents = s.IncomeCents - s.ExpensesCents
	return s
}
