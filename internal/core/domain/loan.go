package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanSnapshot records a property's outstanding loan balance as of a date.
// The ROE report picks the most recent snapshot at or before a year's end.
type LoanSnapshot struct {
	SnapshotID string          `json:"snapshotID"`
	PropertyID string          `json:"propertyID"`
	AsOfDate   time.Time       `json:"asOfDate"`
	Balance    decimal.Decimal `json:"balance"`
	AuditFields
}
