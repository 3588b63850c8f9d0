package ledger

import (
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

// SeedPurchases returns the sample records installed on first run, when the
// storage collaborator has nothing persisted yet.
func SeedPurchases() []core.Purchase {
	d := func(day, hour, min int) time.Time {
		return time.Date(2023, time.October, day, hour, min, 0, 0, time.UTC)
	}
	return []core.Purchase{
		{ID: "1", Item: "Monthly Groceries", Category: core.Groceries, Price: core.Money{Cents: 25075}, Type: core.Credit, Date: d(26, 10, 0)},
		{ID: "2", Item: "Electricity Bill", Category: core.Utilities, Price: core.Money{Cents: 7550}, Type: core.Withdrawal, Date: d(25, 14, 30)},
		{ID: "3", Item: "Gasoline", Category: core.Transportation, Price: core.Money{Cents: 4500}, Type: core.Credit, Date: d(24, 8, 15)},
		{ID: "4", Item: "Movie Tickets", Category: core.Entertainment, Price: core.Money{Cents: 3000}, Type: core.Credit, Date: d(22, 19, 45)},
		{ID: "5", Item: "Salary", Category: core.Other, Price: core.Money{Cents: 250000}, Type: core.Deposit, Date: d(20, 9, 0)},
		{ID: "6", Item: "New T-shirt", Category: core.Shopping, Price: core.Money{Cents: 2599}, Type: core.Credit, Date: d(19, 16, 20)},
		{ID: "7", Item: "Lunch at Cafe", Category: core.FoodAndDrink, Price: core.Money{Cents: 1580}, Type: core.Withdrawal, Date: d(18, 12, 30)},
	}
}
