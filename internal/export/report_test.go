package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

func testPurchases() []core.Purchase {
	d := time.Date(2023, 10, 24, 8, 15, 0, 0, time.UTC)
	return []core.Purchase{
		{ID: "3", Item: "Gasoline", Category: core.Transportation, Price: core.Money{Cents: 4500}, Type: core.Credit, Date: d},
		{ID: "5", Item: "Salary", Category: core.Other, Price: core.Money{Cents: 250000}, Type: core.Deposit, Date: d.Add(-24 * time.Hour)},
	}
}

func TestBuildReportCapsActivities(t *testing.T) {
	var acts []core.Activity
	for i := 0; i < 30; i++ {
		acts = append(acts, core.Activity{
			ID:          fmt.Sprintf("a%d", i),
			Description: fmt.Sprintf("entry %d", i),
			Timestamp:   time.Now(),
		})
	}
	r := BuildReport(testPurchases(), acts)
	if len(r.Activities) != 20 {
		t.Fatalf("activity section should cap at 20, got %d", len(r.Activities))
	}
	if r.Activities[0].ID != "a0" {
		t.Fatal("cap must keep the newest entries")
	}
	if len(r.Purchases) != 2 {
		t.Fatalf("purchases must pass through untouched, got %d", len(r.Purchases))
	}
}

func TestReportCSV(t *testing.T) {
	acts := []core.Activity{
		{ID: "a1", Description: "Added purchase: Gasoline for $45.00.", Timestamp: time.Date(2023, 10, 24, 8, 16, 0, 0, time.UTC)},
	}
	out, err := BuildReport(testPurchases(), acts).CSV()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	doc := string(out)

	for _, want := range []string{
		"Expense Report",
		"Purchase History",
		"Date,Item,Category,Type,Price",
		"2023-10-24,Gasoline,Transportation,Credit,$45.00",
		"Activity Log",
		"Added purchase: Gasoline for $45.00.",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}

	// Purchase rows keep the ledger's order.
	if strings.Index(doc, "Gasoline") > strings.Index(doc, "Salary") {
		t.Fatal("rows must keep the input order")
	}
}

func TestCategoryChartPNG(t *testing.T) {
	png, err := CategoryChartPNG(testPurchases())
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected PNG output")
	}
}

func TestCategoryChartNoOutflows(t *testing.T) {
	deposits := []core.Purchase{{
		ID: "5", Item: "Salary", Category: core.Other,
		Price: core.Money{Cents: 250000}, Type: core.Deposit, Date: time.Now(),
	}}
	png, err := CategoryChartPNG(deposits)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if png != nil {
		t.Fatal("no outflows should produce no chart")
	}
}
