// Package export builds the expense report document. It consumes exactly
// what the ledger hands it: the filtered, sorted record list before
// pagination, and the full activity log.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

// activityLimit caps the activity section at the most recent entries.
const activityLimit = 20

// Report is the assembled document content.
type Report struct {
	Title      string
	Purchases  []core.Purchase
	Activities []core.Activity
	BuiltAt    time.Time
}

// BuildReport assembles a report. The purchase list is taken as-is (already
// filtered and sorted); the activity log is newest-first and truncated to
// the twenty most recent entries.
func BuildReport(purchases []core.Purchase, activities []core.Activity) Report {
	acts := activities
	if len(acts) > activityLimit {
		acts = acts[:activityLimit]
	}
	out := make([]core.Activity, len(acts))
	copy(out, acts)
	return Report{
		Title:      "Expense Report",
		Purchases:  purchases,
		Activities: out,
		BuiltAt:    time.Now().UTC(),
	}
}

// CSV renders the report as a CSV document with a purchase history section
// followed by an activity log section.
func (r Report) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{r.Title},
		{},
		{"Purchase History"},
		{"Date", "Item", "Category", "Type", "Price"},
	}
	for _, p := range r.Purchases {
		rows = append(rows, []string{
			p.Date.Format("2006-01-02"),
			p.Item,
			string(p.Category),
			string(p.Type),
			core.FormatUSD(p.Price.Cents),
		})
	}
	rows = append(rows, []string{}, []string{"Activity Log"}, []string{"Timestamp", "Description"})
	for _, a := range r.Activities {
		rows = append(rows, []string{
			a.Timestamp.Format(time.RFC3339),
			a.Description,
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write report rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	return buf.Bytes(), nil
}
