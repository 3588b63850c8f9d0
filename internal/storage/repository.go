// Package storage persists the ledger snapshot in SQLite.
//
// Saves replace the whole collection inside one transaction, mirroring the
// ledger's whole-value replacement contract: what is on disk is always a
// complete, consistent snapshot. A position column preserves the newest-first
// ordering the ledger maintains in memory.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/srikolla28/trackfina/internal/core"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadPurchases implements ledger.Storage. An empty table yields an empty
// slice and no error.
func (r *Repository) LoadPurchases(ctx context.Context) ([]core.Purchase, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item, category, price_cents, payment_type, purchased_at
		 FROM purchases ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	var out []core.Purchase
	for rows.Next() {
		var (
			p     core.Purchase
			cat   string
			typ   string
			cents int64
			at    string
		)
		if err := rows.Scan(&p.ID, &p.Item, &cat, &cents, &typ, &at); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.Category = core.Category(cat)
		p.Type = core.PaymentType(typ)
		p.Price = core.Money{Cents: cents}
		when, err := time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse purchase date %q: %w", at, err)
		}
		p.Date = when
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return out, nil
}

// LoadActivities implements ledger.Storage.
func (r *Repository) LoadActivities(ctx context.Context) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, created_at FROM activities ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		var (
			a  core.Activity
			at string
		)
		if err := rows.Scan(&a.ID, &a.Description, &at); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		when, err := time.Parse(timeLayout, at)
		if err != nil {
			return nil, fmt.Errorf("parse activity timestamp %q: %w", at, err)
		}
		a.Timestamp = when
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

// SavePurchases implements ledger.Storage by replacing the whole table.
func (r *Repository) SavePurchases(ctx context.Context, purchases []core.Purchase) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM purchases`); err != nil {
			return fmt.Errorf("clear purchases: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO purchases (id, item, category, price_cents, payment_type, purchased_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for i, p := range purchases {
			_, err := stmt.ExecContext(ctx,
				p.ID, p.Item, string(p.Category), p.Price.Cents, string(p.Type),
				p.Date.UTC().Format(timeLayout), i)
			if err != nil {
				return fmt.Errorf("insert purchase %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "Purchases saved", "count", len(purchases))
	return nil
}

// SaveActivities implements ledger.Storage by replacing the whole table.
func (r *Repository) SaveActivities(ctx context.Context, activities []core.Activity) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM activities`); err != nil {
			return fmt.Errorf("clear activities: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO activities (id, description, created_at, position)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for i, a := range activities {
			_, err := stmt.ExecContext(ctx,
				a.ID, a.Description, a.Timestamp.UTC().Format(timeLayout), i)
			if err != nil {
				return fmt.Errorf("insert activity %s: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "Activities saved", "count", len(activities))
	return nil
}

// GetPurchase retrieves a single record by id, for the sync worker.
func (r *Repository) GetPurchase(ctx context.Context, id string) (core.Purchase, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, item, category, price_cents, payment_type, purchased_at
		 FROM purchases WHERE id = ?`, id)

	var (
		p     core.Purchase
		cat   string
		typ   string
		cents int64
		at    string
	)
	if err := row.Scan(&p.ID, &p.Item, &cat, &cents, &typ, &at); err != nil {
		return core.Purchase{}, fmt.Errorf("get purchase %s: %w", id, err)
	}
	p.Category = core.Category(cat)
	p.Type = core.PaymentType(typ)
	p.Price = core.Money{Cents: cents}
	when, err := time.Parse(timeLayout, at)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("parse purchase date %q: %w", at, err)
	}
	p.Date = when
	return p, nil
}

func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
