package dto

import (
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertAnnualAmountRequest sets one (property, category, year) annual cell.
type UpsertAnnualAmountRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	CategoryID string          `json:"categoryID" binding:"required"`
	Year       int             `json:"year" binding:"required,min=1900,max=2200"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// AnnualAmountResponse defines the data returned for an annual amount.
type AnnualAmountResponse struct {
	AnnualAmountID string          `json:"annualAmountID"`
	PropertyID     string          `json:"propertyID"`
	CategoryID     string          `json:"categoryID"`
	Year           int             `json:"year"`
	Amount         decimal.Decimal `json:"amount"`
}

// ToAnnualAmountResponse converts a domain.AnnualCategoryAmount to its DTO.
func ToAnnualAmountResponse(a *domain.AnnualCategoryAmount) AnnualAmountResponse {
	return AnnualAmountResponse{
		AnnualAmountID: a.AnnualAmountID,
		PropertyID:     a.PropertyID,
		CategoryID:     a.CategoryID,
		Year:           a.Year,
		Amount:         a.Amount,
	}
}

// ToListAnnualAmountResponse converts a slice of annual amounts to DTOs.
func ToListAnnualAmountResponse(amounts []domain.AnnualCategoryAmount) []AnnualAmountResponse {
	res := make([]AnnualAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = ToAnnualAmountResponse(&a)
	}
	return res
}

// CreateLoanSnapshotRequest appends a loan balance observation.
type CreateLoanSnapshotRequest struct {
	PropertyID string          `json:"propertyID" binding:"required"`
	AsOfDate   string          `json:"asOfDate" binding:"required,datetime=2006-01-02"`
	Balance    decimal.Decimal `json:"balance" binding:"required"`
}

// LoanSnapshotResponse defines the data returned for a loan snapshot.
type LoanSnapshotResponse struct {
	SnapshotID string          `json:"snapshotID"`
	PropertyID string          `json:"propertyID"`
	AsOfDate   string          `json:"asOfDate"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ToLoanSnapshotResponse converts a domain.LoanSnapshot to its DTO.
func ToLoanSnapshotResponse(s *domain.LoanSnapshot) LoanSnapshotResponse {
	return LoanSnapshotResponse{
		SnapshotID: s.SnapshotID,
		PropertyID: s.PropertyID,
		AsOfDate:   s.AsOfDate.Format("2006-01-02"),
		Balance:    s.Balance,
		CreatedAt:  s.CreatedAt,
	}
}

// ToListLoanSnapshotResponse converts a slice of snapshots to DTOs.
func ToListLoanSnapshotResponse(snapshots []domain.LoanSnapshot) []LoanSnapshotResponse {
	res := make([]LoanSnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		res[i] = ToLoanSnapshotResponse(&s)
	}
	return res
}
