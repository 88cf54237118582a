package domain

import "github.com/shopspring/decimal"

// RecurringTransaction is a standing monthly charge instruction, not a posted
// fact. Posting materializes one Transaction per (rule, month).
type RecurringTransaction struct {
	RecurringID string          `json:"recurringID"`
	PropertyID  string          `json:"propertyID"`
	CategoryID  string          `json:"categoryID"`
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	Memo        string          `json:"memo"`
	DayOfMonth  int             `json:"dayOfMonth"` // 1..28
	StartMonth  Month           `json:"startMonth"`
	EndMonth    *Month          `json:"endMonth,omitempty"` // nil = open-ended
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// RecurringPosting is the idempotency marker for one posted (rule, month)
// pair. Its existence means "already posted" forever, even if the linked
// transaction is later edited or soft-deleted.
type RecurringPosting struct {
	RecurringID   string `json:"recurringID"`
	Month         Month  `json:"month"`
	TransactionID string `json:"transactionID,omitempty"`
}

// PostingSummary reports the outcome of one catch-up posting run.
type PostingSummary struct {
	PostedCount     int     `json:"postedCount"`
	SkippedCount    int     `json:"skippedCount"`
	MonthsProcessed []Month `json:"monthsProcessed"`
}
