package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a reporting read-model row: a live (non-deleted) transaction
// joined to its category for type/sign and to its property for labeling.
type LedgerEntry struct {
	TransactionID string
	PropertyID    string
	PropertyLabel string
	CategoryID    string
	CategoryName  string
	CategoryType  CategoryType
	Date          time.Time
	Amount        decimal.Decimal
}

// AnnualLedgerEntry is the reporting read-model row for once-per-year
// amounts, used by reports that explicitly include annual-only data.
type AnnualLedgerEntry struct {
	PropertyID    string
	PropertyLabel string
	CategoryID    string
	CategoryName  string
	CategoryType  CategoryType
	Year          int
	Amount        decimal.Decimal
}

// CategoryUsage counts the references that pin a category: direct children,
// transactions (including soft-deleted ones), recurring rules, and annual
// amounts. Any non-zero count forces deactivation instead of hard delete and
// locks the category's type.
type CategoryUsage struct {
	Children       int64
	Transactions   int64
	RecurringRules int64
	AnnualAmounts  int64
}

// IsReferenced reports whether anything still points at the category.
func (u CategoryUsage) IsReferenced() bool {
	return u.Children > 0 || u.Transactions > 0 || u.RecurringRules > 0 || u.AnnualAmounts > 0
}

// TypeLocked reports whether the category's type may no longer change.
func (u CategoryUsage) TypeLocked() bool {
	return u.Children > 0 || u.Transactions > 0
}
