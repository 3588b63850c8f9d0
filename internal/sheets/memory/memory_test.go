package memory

import (
	"context"
	"testing"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

func TestAppendAndDelete(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := core.Purchase{
		ID: "p1", Item: "Gasoline", Category: core.Transportation,
		Price: core.Money{Cents: 4500}, Type: core.Credit,
		Date: time.Date(2023, 10, 24, 8, 15, 0, 0, time.UTC),
	}

	ref, err := s.AppendPurchase(ctx, p)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}
	if got := s.Rows(); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("rows = %+v", got)
	}

	if err := s.DeletePurchase(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Rows(); len(got) != 0 {
		t.Fatalf("expected empty sheet, got %+v", got)
	}

	// Unknown id is a no-op.
	if err := s.DeletePurchase(ctx, "ghost"); err != nil {
		t.Fatalf("delete unknown: %v", err)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.AppendPurchase(context.Background(), core.Purchase{ID: "x"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Rows()) != 0 {
		t.Fatal("invalid record must not be stored")
	}
}
