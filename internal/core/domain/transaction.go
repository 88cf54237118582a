package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource records how a transaction entered the ledger.
type TransactionSource string

const (
	SourceManual    TransactionSource = "MANUAL"
	SourceRecurring TransactionSource = "RECURRING"
)

// Transaction is a single dated ledger entry against a property and category.
// Amounts are signed: income entries are non-negative, expense entries
// non-positive, transfer entries carry whatever sign the caller supplied.
type Transaction struct {
	TransactionID  string            `json:"transactionID"`
	PropertyID     string            `json:"propertyID"`
	CategoryID     string            `json:"categoryID"`
	Date           time.Time         `json:"date"` // calendar day, UTC midnight
	Amount         decimal.Decimal   `json:"amount"`
	Payee          string            `json:"payee"`
	Memo           string            `json:"memo"`
	StatementMonth string            `json:"statementMonth,omitempty"` // optional "YYYY-MM" tag, independent of Date
	Source         TransactionSource `json:"source"`
	DeletedAt      *time.Time        `json:"deletedAt,omitempty"` // soft-delete tombstone, restorable
	AuditFields
}

// IsDeleted reports whether the transaction carries a tombstone.
func (t Transaction) IsDeleted() bool {
	return t.DeletedAt != nil
}

// NormalizeAmount applies the ledger sign convention for a category type:
// income amounts become non-negative, expense amounts non-positive, and
// transfer amounts pass through untouched.
func NormalizeAmount(amount decimal.Decimal, categoryType CategoryType) decimal.Decimal {
	switch categoryType {
	case CategoryTypeIncome:
		return amount.Abs()
	case CategoryTypeExpense:
		return amount.Abs().Neg()
	}
	return amount
}

// AmountSignValid reports whether a signed amount is permitted for the given
// category type.
func AmountSignValid(amount decimal.Decimal, categoryType CategoryType) bool {
	switch categoryType {
	case CategoryTypeIncome:
		return amount.Sign() >= 0
	case CategoryTypeExpense:
		return amount.Sign() <= 0
	}
	return true
}
