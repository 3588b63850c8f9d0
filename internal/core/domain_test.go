package core

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Fatalf("ParseCategory(%q) unexpected error: %v", c, err)
		}
		if got != c {
			t.Fatalf("ParseCategory(%q) = %q", c, got)
		}
	}
	if _, err := ParseCategory("groceries"); err == nil {
		t.Fatal("expected error for lowercase label")
	}
	if _, err := ParseCategory(""); err == nil {
		t.Fatal("expected error for empty label")
	}
}

func TestPaymentTypeIsOutflow(t *testing.T) {
	if !Credit.IsOutflow() {
		t.Error("Credit should be an outflow")
	}
	if !Withdrawal.IsOutflow() {
		t.Error("Withdrawal should be an outflow")
	}
	if Deposit.IsOutflow() {
		t.Error("Deposit should not be an outflow")
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero should be valid, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestPurchaseValidate(t *testing.T) {
	when := time.Date(2023, 10, 26, 10, 0, 0, 0, time.UTC)
	good := Purchase{
		ID:       "1",
		Item:     "Monthly Groceries",
		Category: Groceries,
		Price:    Money{Cents: 25075},
		Type:     Credit,
		Date:     when,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Purchase{
		{Item: "  ", Category: Groceries, Price: Money{Cents: 1}, Type: Credit, Date: when},
		{Item: "a", Category: "Nope", Price: Money{Cents: 1}, Type: Credit, Date: when},
		{Item: "a", Category: Groceries, Price: Money{Cents: 1}, Type: "Cash", Date: when},
		{Item: "a", Category: Groceries, Price: Money{Cents: -1}, Type: Credit, Date: when},
		{Item: "a", Category: Groceries, Price: Money{Cents: 1}, Type: Credit},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
