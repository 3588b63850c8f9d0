// Package ledger owns the authoritative record snapshot and the query state,
// and re-runs the filter/sort/paginate pipeline after every change. All record
// mutation goes through it so that exactly one activity entry is appended per
// successful create, update or delete.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/srikolla28/trackfina/internal/core"
	"github.com/srikolla28/trackfina/internal/query"
)

// ErrNotFound reports an update against an id that is not in the store.
// It is never fatal: callers treat it as a no-op.
var ErrNotFound = errors.New("purchase not found")

// Storage is the injected persistence collaborator. The ledger calls it only
// at startup and at mutation boundaries, never mid-pipeline. Load returning
// an empty collection and a nil error means "no data yet".
type Storage interface {
	LoadPurchases(ctx context.Context) ([]core.Purchase, error)
	LoadActivities(ctx context.Context) ([]core.Activity, error)
	SavePurchases(ctx context.Context, purchases []core.Purchase) error
	SaveActivities(ctx context.Context, activities []core.Activity) error
}

// EventPublisher receives a best-effort notification after each successful
// mutation. Failures are logged and swallowed; they never fail the mutation.
type EventPublisher interface {
	PublishPurchaseUpsert(ctx context.Context, p core.Purchase) error
	PublishPurchaseDelete(ctx context.Context, id string) error
}

// PurchaseInput carries the caller-editable fields of a record.
type PurchaseInput struct {
	Item       string
	Category   core.Category
	PriceCents int64
	Type       core.PaymentType
	Date       time.Time // zero means "now"
}

// View is the assembled result of one pipeline evaluation.
type View struct {
	Summary    query.Summary
	Items      []core.Purchase
	TotalPages int
	Page       int
}

// Ledger composes the record store, the query state and the pipeline.
//
// Mutations replace whole collection values under the mutex, so every
// evaluation runs over a consistent snapshot: snapshot in, pure transform,
// snapshot out.
type Ledger struct {
	mu         sync.Mutex
	purchases  []core.Purchase
	activities []core.Activity
	state      query.State

	storage   Storage
	publisher EventPublisher

	now   func() time.Time
	newID func() string
}

func New(storage Storage, publisher EventPublisher) *Ledger {
	return &Ledger{
		state:     query.NewState(),
		storage:   storage,
		publisher: publisher,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Load pulls the persisted collections, installing the seed data when the
// store is empty (first run).
func (l *Ledger) Load(ctx context.Context) error {
	var (
		purchases  []core.Purchase
		activities []core.Activity
		err        error
	)
	if l.storage != nil {
		purchases, err = l.storage.LoadPurchases(ctx)
		if err != nil {
			return fmt.Errorf("load purchases: %w", err)
		}
		activities, err = l.storage.LoadActivities(ctx)
		if err != nil {
			return fmt.Errorf("load activities: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(purchases) == 0 && len(activities) == 0 {
		l.purchases = SeedPurchases()
		l.activities = []core.Activity{{
			ID:          l.newID(),
			Description: "Application loaded.",
			Timestamp:   l.now(),
		}}
		l.persistLocked(ctx)
		slog.InfoContext(ctx, "Installed seed data", "purchases", len(l.purchases))
		return nil
	}
	l.purchases = purchases
	l.activities = activities
	slog.InfoContext(ctx, "Loaded ledger",
		"purchases", len(purchases),
		"activities", len(activities))
	return nil
}

// Evaluate runs the full pipeline over the current snapshot.
//
// The summary is computed over the unfiltered record set: filters narrow the
// table view only. If the current page now exceeds the page count (a filter
// or sort change shrank the result), the page is clamped to the last one.
func (l *Ledger) Evaluate() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evaluateLocked()
}

func (l *Ledger) evaluateLocked() View {
	summary := query.Summarize(l.purchases)

	visible := query.Filter(l.purchases, l.state.Criteria)
	visible = query.Sort(visible, l.state.SortKey, l.state.SortDir)

	_, totalPages := query.Paginate(visible, 1, l.state.PageSize)
	if l.state.Page > totalPages {
		l.state.Page = totalPages
	}
	items, _ := query.Paginate(visible, l.state.Page, l.state.PageSize)

	return View{
		Summary:    summary,
		Items:      items,
		TotalPages: totalPages,
		Page:       l.state.Page,
	}
}

// AddPurchase validates the input, assigns a fresh id, prepends the record
// (newest first) and logs the mutation. Validation failures leave the store
// and the activity log untouched.
func (l *Ledger) AddPurchase(ctx context.Context, in PurchaseInput) (core.Purchase, error) {
	date := in.Date
	if date.IsZero() {
		date = l.now()
	}
	p := core.Purchase{
		ID:       l.newID(),
		Item:     in.Item,
		Category: in.Category,
		Price:    core.Money{Cents: in.PriceCents},
		Type:     in.Type,
		Date:     date.UTC(),
	}
	if err := p.Validate(); err != nil {
		return core.Purchase{}, err
	}

	l.mu.Lock()
	next := make([]core.Purchase, 0, len(l.purchases)+1)
	next = append(next, p)
	next = append(next, l.purchases...)
	l.purchases = next
	l.appendActivityLocked(fmt.Sprintf("Added purchase: %s for %s.", p.Item, core.FormatUSD(p.Price.Cents)))
	l.persistLocked(ctx)
	l.mu.Unlock()

	l.publishUpsert(ctx, p)
	return p, nil
}

// UpdatePurchase replaces the record with the same id. The id itself never
// changes; an unknown id returns ErrNotFound without touching any state.
func (l *Ledger) UpdatePurchase(ctx context.Context, p core.Purchase) error {
	if err := p.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	idx := -1
	for i := range l.purchases {
		if l.purchases[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return ErrNotFound
	}
	next := make([]core.Purchase, len(l.purchases))
	copy(next, l.purchases)
	p.Date = p.Date.UTC()
	next[idx] = p
	l.purchases = next
	l.appendActivityLocked(fmt.Sprintf("Updated purchase: %s.", p.Item))
	l.persistLocked(ctx)
	l.mu.Unlock()

	l.publishUpsert(ctx, p)
	return nil
}

// DeletePurchase removes the record by id. Deleting a nonexistent id is a
// silent no-op: no state change, no activity entry, nil error.
func (l *Ledger) DeletePurchase(ctx context.Context, id string) error {
	l.mu.Lock()
	idx := -1
	for i := range l.purchases {
		if l.purchases[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return nil
	}
	deleted := l.purchases[idx]
	next := make([]core.Purchase, 0, len(l.purchases)-1)
	next = append(next, l.purchases[:idx]...)
	next = append(next, l.purchases[idx+1:]...)
	l.purchases = next
	l.appendActivityLocked(fmt.Sprintf("Deleted purchase: %s.", deleted.Item))
	l.persistLocked(ctx)
	l.mu.Unlock()

	if l.publisher != nil {
		if err := l.publisher.PublishPurchaseDelete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Publish delete event failed", "id", id, "error", err)
		}
	}
	return nil
}

// SetSearch updates the text predicate; any filter change resets to page 1.
func (l *Ledger) SetSearch(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetSearch(term)
}

func (l *Ledger) SetCategory(category string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetCategory(category)
}

func (l *Ledger) SetPaymentType(paymentType string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetPaymentType(paymentType)
}

func (l *Ledger) SetDateRange(from, to *time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetDateRange(from, to)
}

// SortBy applies the toggle rule: same key flips direction, a new key starts
// ascending. Sorting keeps the current page.
func (l *Ledger) SortBy(key query.SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SortBy(key)
}

// SetPage navigates to a page; the final clamp against the page count
// happens on the next Evaluate.
func (l *Ledger) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetPage(page)
}

// SetPageSize changes the page size and resets to the first page.
func (l *Ledger) SetPageSize(size int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.SetPageSize(size)
}

// State returns a copy of the current query configuration.
func (l *Ledger) State() query.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Purchases returns a copy of the full unfiltered snapshot.
func (l *Ledger) Purchases() []core.Purchase {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Purchase, len(l.purchases))
	copy(out, l.purchases)
	return out
}

// Activities returns a copy of the activity log, newest first.
func (l *Ledger) Activities() []core.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Activity, len(l.activities))
	copy(out, l.activities)
	return out
}

// ExportData returns what the export collaborator consumes: the filtered and
// sorted record list before pagination, and the complete activity log.
func (l *Ledger) ExportData() ([]core.Purchase, []core.Activity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	visible := query.Filter(l.purchases, l.state.Criteria)
	visible = query.Sort(visible, l.state.SortKey, l.state.SortDir)
	activities := make([]core.Activity, len(l.activities))
	copy(activities, l.activities)
	return visible, activities
}

func (l *Ledger) appendActivityLocked(description string) {
	entry := core.Activity{
		ID:          l.newID(),
		Description: description,
		Timestamp:   l.now(),
	}
	next := make([]core.Activity, 0, len(l.activities)+1)
	next = append(next, entry)
	next = append(next, l.activities...)
	l.activities = next
}

// persistLocked writes both collections through the storage collaborator.
// The in-memory snapshot is authoritative; a failed save is logged and the
// mutation stands.
func (l *Ledger) persistLocked(ctx context.Context) {
	if l.storage == nil {
		return
	}
	if err := l.storage.SavePurchases(ctx, l.purchases); err != nil {
		slog.ErrorContext(ctx, "Save purchases failed", "error", err, "count", len(l.purchases))
	}
	if err := l.storage.SaveActivities(ctx, l.activities); err != nil {
		slog.ErrorContext(ctx, "Save activities failed", "error", err, "count", len(l.activities))
	}
}

func (l *Ledger) publishUpsert(ctx context.Context, p core.Purchase) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishPurchaseUpsert(ctx, p); err != nil {
		slog.WarnContext(ctx, "Publish upsert event failed", "id", p.ID, "error", err)
	}
}
