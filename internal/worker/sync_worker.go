// Package worker mirrors ledger mutations into the external report sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/srikolla28/trackfina/internal/amqp"
	"github.com/srikolla28/trackfina/internal/core"
	"github.com/srikolla28/trackfina/internal/sheets"
)

// RecordFetcher resolves an event's record id against the database. Events
// carry ids only, so the worker always mirrors the current state of a record.
type RecordFetcher interface {
	GetPurchase(ctx context.Context, id string) (core.Purchase, error)
}

// RecordLister loads the full record set, used by periodic resync passes.
type RecordLister interface {
	LoadPurchases(ctx context.Context) ([]core.Purchase, error)
}

// SyncWorker consumes purchase events and applies them to the report sheet.
type SyncWorker struct {
	fetcher  RecordFetcher
	appender sheets.RowAppender
	deleter  sheets.RowDeleter
}

func NewSyncWorker(fetcher RecordFetcher, appender sheets.RowAppender, deleter sheets.RowDeleter) *SyncWorker {
	return &SyncWorker{
		fetcher:  fetcher,
		appender: appender,
		deleter:  deleter,
	}
}

// HandleEvent processes a single purchase event. Returned errors cause the
// consumer to requeue the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.PurchaseEvent) error {
	switch event.Kind {
	case amqp.KindUpsert:
		return w.handleUpsert(ctx, event.ID)
	case amqp.KindDelete:
		return w.handleDelete(ctx, event.ID)
	default:
		// Unknown kinds are dropped, not requeued forever.
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", event.Kind, "id", event.ID)
		return nil
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, id string) error {
	if w.appender == nil {
		slog.WarnContext(ctx, "No row appender configured, skipping upsert", "id", id)
		return nil
	}

	p, err := w.fetcher.GetPurchase(ctx, id)
	if err != nil {
		// The record may have been deleted after the event was queued;
		// nothing to mirror in that case.
		slog.WarnContext(ctx, "Record not found for upsert event, skipping", "id", id, "error", err)
		return nil
	}

	return w.mirror(ctx, p)
}

// mirror replaces any stale sheet row for the record with its current state.
func (w *SyncWorker) mirror(ctx context.Context, p core.Purchase) error {
	if w.deleter != nil {
		if err := w.deleter.DeletePurchase(ctx, p.ID); err != nil {
			return fmt.Errorf("clear stale row: %w", err)
		}
	}

	ref, err := w.appender.AppendPurchase(ctx, p)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "Record mirrored", "id", p.ID, "item", p.Item, "ref", ref)
	return nil
}

// Resync re-mirrors every stored record, repairing rows for events missed
// while the worker was down. Row-level failures are logged and the pass
// continues; only a failed load or a cancelled context aborts it.
func (w *SyncWorker) Resync(ctx context.Context, lister RecordLister) error {
	purchases, err := lister.LoadPurchases(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	failed := 0
	for _, p := range purchases {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.mirror(ctx, p); err != nil {
			failed++
			slog.WarnContext(ctx, "Resync of record failed", "id", p.ID, "error", err)
		}
	}
	slog.InfoContext(ctx, "Resync pass complete", "records", len(purchases), "failed", failed)
	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, id string) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No row deleter configured, skipping delete", "id", id)
		return nil
	}
	if err := w.deleter.DeletePurchase(ctx, id); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	slog.InfoContext(ctx, "Record removed from sheet", "id", id)
	return nil
}
