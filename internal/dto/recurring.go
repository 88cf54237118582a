package dto

import (
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringRequest defines the data needed to create a standing
// monthly charge rule. DayOfMonth is capped at 28 so every month of the year
// has a valid due date.
type CreateRecurringRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	CategoryID string          `json:"categoryID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Payee      string          `json:"payee"`
	Memo       string          `json:"memo"`
	DayOfMonth int             `json:"dayOfMonth" binding:"required,min=1,max=28"`
	StartMonth string          `json:"startMonth" binding:"required,month"`
	EndMonth   *string         `json:"endMonth" binding:"omitempty,month"`
}

// UpdateRecurringRequest defines the data allowed for updating a rule.
type UpdateRecurringRequest struct {
	CategoryID *string          `json:"categoryID"`
	Amount     *decimal.Decimal `json:"amount"`
	Payee      *string          `json:"payee"`
	Memo       *string          `json:"memo"`
	DayOfMonth *int             `json:"dayOfMonth" binding:"omitempty,min=1,max=28"`
	StartMonth *string          `json:"startMonth" binding:"omitempty,month"`
	EndMonth   *string          `json:"endMonth" binding:"omitempty,month"`
	IsActive   *bool            `json:"isActive"`
}

// RecurringResponse defines the data returned for a recurring rule.
type RecurringResponse struct {
	RecurringID   string          `json:"recurringID"`
	PropertyID    string          `json:"propertyID"`
	CategoryID    string          `json:"categoryID"`
	Amount        decimal.Decimal `json:"amount"`
	Payee         string          `json:"payee"`
	Memo          string          `json:"memo"`
	DayOfMonth    int             `json:"dayOfMonth"`
	StartMonth    string          `json:"startMonth"`
	EndMonth      string          `json:"endMonth,omitempty"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// PostingSummaryResponse reports the outcome of one catch-up posting run.
type PostingSummaryResponse struct {
	PostedCount     int      `json:"postedCount"`
	SkippedCount    int      `json:"skippedCount"`
	MonthsProcessed []string `json:"monthsProcessed"`
}

// ToRecurringResponse converts a domain.RecurringTransaction to its DTO.
func ToRecurringResponse(r *domain.RecurringTransaction) RecurringResponse {
	resp := RecurringResponse{
		RecurringID:   r.RecurringID,
		PropertyID:    r.PropertyID,
		CategoryID:    r.CategoryID,
		Amount:        r.Amount,
		Payee:         r.Payee,
		Memo:          r.Memo,
		DayOfMonth:    r.DayOfMonth,
		StartMonth:    r.StartMonth.String(),
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
	if r.EndMonth != nil {
		resp.EndMonth = r.EndMonth.String()
	}
	return resp
}

// ToListRecurringResponse converts a slice of rules to DTOs.
func ToListRecurringResponse(rules []domain.RecurringTransaction) []RecurringResponse {
	res := make([]RecurringResponse, len(rules))
	for i, r := range rules {
		res[i] = ToRecurringResponse(&r)
	}
	return res
}

// ToPostingSummaryResponse converts a domain.PostingSummary to its DTO.
func ToPostingSummaryResponse(s *domain.PostingSummary) PostingSummaryResponse {
	months := make([]string, len(s.MonthsProcessed))
	for i, m := range s.MonthsProcessed {
		months[i] = m.String()
	}
	return PostingSummaryResponse{
		PostedCount:     s.PostedCount,
		SkippedCount:    s.SkippedCount,
		MonthsProcessed: months,
	}
}
