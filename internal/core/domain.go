package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Groceries      Category = "Groceries"
	Utilities      Category = "Utilities"
	Transportation Category = "Transportation"
	Entertainment  Category = "Entertainment"
	Health         Category = "Health"
	Shopping       Category = "Shopping"
	FoodAndDrink   Category = "Food & Drink"
	Other          Category = "Other"
)

const (
	Credit     PaymentType = "Credit"
	Deposit    PaymentType = "Deposit"
	Withdrawal PaymentType = "Withdrawal"
)

type (
	Category string

	PaymentType string

	Money struct {
		Cents int64
	}

	// Purchase is a single financial record. ID is assigned at creation and
	// never changes; every other field is mutable through an update.
	Purchase struct {
		ID       string
		Item     string
		Category Category
		Price    Money
		Type     PaymentType
		Date     time.Time
	}

	// Activity is one append-only log entry describing a mutation.
	Activity struct {
		ID          string
		Description string
		Timestamp   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyItem          = errors.New("empty item name")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrZeroDate           = errors.New("date cannot be zero")
)

func Categories() []Category {
	return []Category{
		Groceries, Utilities, Transportation, Entertainment,
		Health, Shopping, FoodAndDrink, Other,
	}
}

func PaymentTypes() []PaymentType {
	return []PaymentType{Credit, Deposit, Withdrawal}
}

// ParseCategory matches a label against the fixed category set.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// ParsePaymentType matches a label against the fixed payment type set.
func ParsePaymentType(s string) (PaymentType, error) {
	for _, t := range PaymentTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", ErrInvalidPaymentType
}

// IsOutflow reports whether the payment type reduces the balance.
// Credit and Withdrawal are outflows, Deposit is the only inflow.
func (t PaymentType) IsOutflow() bool {
	return t == Credit || t == Withdrawal
}

func (c Category) Validate() error {
	_, err := ParseCategory(string(c))
	return err
}

func (t PaymentType) Validate() error {
	_, err := ParsePaymentType(string(t))
	return err
}

// Validate rejects negative amounts. Zero is allowed: the sign of a
// record's effect on the balance comes from its payment type, never
// from the price itself.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p Purchase) Validate() error {
	if len(strings.TrimSpace(p.Item)) == 0 {
		return ErrEmptyItem
	}
	if len(p.Item) > 200 {
		return errors.New("item name too long (max 200 characters)")
	}
	if err := p.Category.Validate(); err != nil {
		return err
	}
	if err := p.Type.Validate(); err != nil {
		return err
	}
	if err := p.Price.Validate(); err != nil {
		return err
	}
	if p.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}
