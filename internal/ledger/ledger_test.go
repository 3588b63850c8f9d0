package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
	"github.com/srikolla28/trackfina/internal/query"
)

type fakeStorage struct {
	purchases  []core.Purchase
	activities []core.Activity
	saves      int
	loadErr    error
}

func (f *fakeStorage) LoadPurchases(context.Context) ([]core.Purchase, error) {
	return f.purchases, f.loadErr
}

func (f *fakeStorage) LoadActivities(context.Context) ([]core.Activity, error) {
	return f.activities, f.loadErr
}

func (f *fakeStorage) SavePurchases(_ context.Context, ps []core.Purchase) error {
	f.purchases = ps
	f.saves++
	return nil
}

func (f *fakeStorage) SaveActivities(_ context.Context, as []core.Activity) error {
	f.activities = as
	return nil
}

type fakePublisher struct {
	upserts int
	deletes int
	err     error
}

func (f *fakePublisher) PublishPurchaseUpsert(context.Context, core.Purchase) error {
	f.upserts++
	return f.err
}

func (f *fakePublisher) PublishPurchaseDelete(context.Context, string) error {
	f.deletes++
	return f.err
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(&fakeStorage{}, nil)
	seq := 0
	l.newID = func() string { seq++; return fmt.Sprintf("id-%d", seq) }
	l.now = func() time.Time { return time.Date(2023, 11, 1, 12, 0, 0, 0, time.UTC) }
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return l
}

func TestLoadInstallsSeedWhenEmpty(t *testing.T) {
	st := &fakeStorage{}
	l := New(st, nil)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(l.Purchases()); got != 7 {
		t.Fatalf("expected 7 seed purchases, got %d", got)
	}
	acts := l.Activities()
	if len(acts) != 1 || acts[0].Description != "Application loaded." {
		t.Fatalf("expected seed activity, got %+v", acts)
	}
	if st.saves == 0 {
		t.Fatal("seed data should be persisted")
	}
}

func TestLoadKeepsPersistedData(t *testing.T) {
	st := &fakeStorage{
		purchases: []core.Purchase{{
			ID: "x1", Item: "Rent", Category: core.Other,
			Price: core.Money{Cents: 100000}, Type: core.Withdrawal,
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
		activities: []core.Activity{{ID: "a1", Description: "ok", Timestamp: time.Now()}},
	}
	l := New(st, nil)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	ps := l.Purchases()
	if len(ps) != 1 || ps[0].ID != "x1" {
		t.Fatalf("persisted data should win over seed, got %+v", ps)
	}
}

func TestLoadPropagatesStorageError(t *testing.T) {
	l := New(&fakeStorage{loadErr: errors.New("disk gone")}, nil)
	if err := l.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestAddPurchase(t *testing.T) {
	l := newTestLedger(t)
	pub := &fakePublisher{}
	l.publisher = pub

	p, err := l.AddPurchase(context.Background(), PurchaseInput{
		Item:       "Coffee Beans",
		Category:   core.FoodAndDrink,
		PriceCents: 1250,
		Type:       core.Credit,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID == "" {
		t.Fatal("id should be assigned")
	}
	if p.Date.IsZero() {
		t.Fatal("zero input date should default to now")
	}

	ps := l.Purchases()
	if len(ps) != 8 || ps[0].ID != p.ID {
		t.Fatalf("new record should be prepended, got head %q of %d", ps[0].ID, len(ps))
	}
	acts := l.Activities()
	if acts[0].Description != "Added purchase: Coffee Beans for $12.50." {
		t.Fatalf("activity description = %q", acts[0].Description)
	}
	if pub.upserts != 1 {
		t.Fatalf("expected one upsert event, got %d", pub.upserts)
	}
}

func TestAddPurchaseValidationLeavesStateUntouched(t *testing.T) {
	l := newTestLedger(t)
	before := len(l.Purchases())
	actsBefore := len(l.Activities())

	cases := []PurchaseInput{
		{Item: "", Category: core.Other, PriceCents: 100, Type: core.Credit},
		{Item: "x", Category: "Nope", PriceCents: 100, Type: core.Credit},
		{Item: "x", Category: core.Other, PriceCents: -5, Type: core.Credit},
		{Item: "x", Category: core.Other, PriceCents: 100, Type: "Cash"},
	}
	for i, in := range cases {
		if _, err := l.AddPurchase(context.Background(), in); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(l.Purchases()) != before || len(l.Activities()) != actsBefore {
		t.Fatal("rejected input must not mutate store or activity log")
	}
}

func TestUpdatePurchase(t *testing.T) {
	l := newTestLedger(t)
	target := l.Purchases()[2] // Gasoline
	target.Item = "Diesel"
	target.Price = core.Money{Cents: 5500}

	if err := l.UpdatePurchase(context.Background(), target); err != nil {
		t.Fatalf("update: %v", err)
	}
	ps := l.Purchases()
	if ps[2].Item != "Diesel" || ps[2].Price.Cents != 5500 {
		t.Fatalf("record not updated in place: %+v", ps[2])
	}
	if ps[2].ID != target.ID {
		t.Fatal("id must survive an update")
	}
	if got := l.Activities()[0].Description; got != "Updated purchase: Diesel." {
		t.Fatalf("activity description = %q", got)
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	l := newTestLedger(t)
	actsBefore := len(l.Activities())
	err := l.UpdatePurchase(context.Background(), core.Purchase{
		ID: "missing", Item: "x", Category: core.Other,
		Price: core.Money{Cents: 1}, Type: core.Credit, Date: time.Now(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(l.Activities()) != actsBefore {
		t.Fatal("not-found update must not log activity")
	}
}

func TestDeletePurchase(t *testing.T) {
	l := newTestLedger(t)
	pub := &fakePublisher{}
	l.publisher = pub
	id := l.Purchases()[0].ID

	if err := l.DeletePurchase(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, p := range l.Purchases() {
		if p.ID == id {
			t.Fatal("record still present after delete")
		}
	}
	if got := l.Activities()[0].Description; got != "Deleted purchase: Monthly Groceries." {
		t.Fatalf("activity description = %q", got)
	}
	if pub.deletes != 1 {
		t.Fatalf("expected one delete event, got %d", pub.deletes)
	}
}

func TestDeleteNonexistentIsNoOp(t *testing.T) {
	l := newTestLedger(t)
	before := len(l.Purchases())
	actsBefore := len(l.Activities())

	if err := l.DeletePurchase(context.Background(), "ghost"); err != nil {
		t.Fatalf("deleting a nonexistent id must not error, got %v", err)
	}
	if len(l.Purchases()) != before {
		t.Fatal("store changed on nonexistent delete")
	}
	if len(l.Activities()) != actsBefore {
		t.Fatal("activity log changed on nonexistent delete")
	}
}

func TestEvaluateSummaryIgnoresFilters(t *testing.T) {
	l := newTestLedger(t)
	full := l.Evaluate()

	l.SetSearch("gas")
	filtered := l.Evaluate()
	if len(filtered.Items) != 1 {
		t.Fatalf("expected one visible record, got %d", len(filtered.Items))
	}
	if filtered.Summary != full.Summary {
		t.Fatalf("summary must not track filters: %+v vs %+v", filtered.Summary, full.Summary)
	}
	if full.Summary.IncomeCents != 250000 || full.Summary.ExpensesCents != 44304 {
		t.Fatalf("seed summary off: %+v", full.Summary)
	}
	if full.Summary.BalanceCents != full.Summary.IncomeCents-full.Summary.ExpensesCents {
		t.Fatal("balance must equal income minus expenses")
	}
}

func TestEvaluateDefaultOrder(t *testing.T) {
	l := newTestLedger(t)
	v := l.Evaluate()
	if v.TotalPages != 1 || v.Page != 1 {
		t.Fatalf("7 records should fit one page, got page %d of %d", v.Page, v.TotalPages)
	}
	if v.Items[0].Item != "Monthly Groceries" || v.Items[len(v.Items)-1].Item != "Lunch at Cafe" {
		t.Fatal("default order should be date descending")
	}
}

func TestEvaluateClampsPageAfterNarrowing(t *testing.T) {
	l := newTestLedger(t)
	// Shrink the page size so the seed spans multiple pages.
	l.mu.Lock()
	l.state.PageSize = 2
	l.mu.Unlock()

	l.SetPage(4)
	v := l.Evaluate()
	if v.Page != 4 || v.TotalPages != 4 {
		t.Fatalf("expected page 4 of 4, got %d of %d", v.Page, v.TotalPages)
	}

	// Sorting keeps the page but the clamp still applies once the result
	// set shrinks.
	l.SortBy(query.SortByPrice)
	v = l.Evaluate()
	if v.Page != 4 {
		t.Fatalf("sort must not reset the page, got %d", v.Page)
	}

	// Navigating past the end clamps to the last page on evaluation.
	l.SetPage(9)
	v = l.Evaluate()
	if v.Page != 4 {
		t.Fatalf("page beyond totalPages should clamp to %d, got %d", v.TotalPages, v.Page)
	}

	l.SetPaymentType(string(core.Withdrawal)) // 2 records -> 1 page
	v = l.Evaluate()
	if v.Page != 1 || v.TotalPages != 1 {
		t.Fatalf("filter change should land on page 1 of 1, got %d of %d", v.Page, v.TotalPages)
	}
	if len(v.Items) != 2 {
		t.Fatalf("expected both withdrawals visible, got %d", len(v.Items))
	}
}

func TestExportData(t *testing.T) {
	l := newTestLedger(t)
	l.mu.Lock()
	l.state.PageSize = 2 // pagination must not affect the export
	l.mu.Unlock()
	l.SetSearch("e") // narrows the visible set

	purchases, activities := l.ExportData()
	if len(purchases) == 0 || len(purchases) == 7 {
		t.Fatalf("export should be the filtered set, got %d records", len(purchases))
	}
	for _, p := range purchases {
		if !strings.Contains(strings.ToLower(p.Item), "e") {
			t.Fatalf("unfiltered record leaked into export: %q", p.Item)
		}
	}
	if len(activities) != len(l.Activities()) {
		t.Fatal("export should carry the full activity log")
	}
}
