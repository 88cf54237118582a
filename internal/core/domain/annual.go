package domain

import "github.com/shopspring/decimal"

// AnnualCategoryAmount is a once-per-year ledger entry that bypasses monthly
// posting. Only reporting consumes it.
type AnnualCategoryAmount struct {
	AnnualAmountID string          `json:"annualAmountID"`
	PropertyID     string          `json:"propertyID"`
	CategoryID     string          `json:"categoryID"`
	Year           int             `json:"year"`
	Amount         decimal.Decimal `json:"amount"`
	AuditFields
}
