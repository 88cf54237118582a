package services

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/dto"
)

// AnnualAmountSvc manages once-per-year category amounts that bypass monthly
// posting and feed only into reporting.
type AnnualAmountSvc interface {
	// ListAnnualAmounts retrieves a property's annual amounts.
	ListAnnualAmounts(ctx context.Context, propertyID string) ([]domain.AnnualCategoryAmount, error)

	// UpsertAnnualAmount inserts or replaces one (property, category, year)
	// cell.
	UpsertAnnualAmount(ctx context.Context, req dto.UpsertAnnualAmountRequest, userID string) (*domain.AnnualCategoryAmount, error)

	// DeleteAnnualAmount removes one annual amount row.
	DeleteAnnualAmount(ctx context.Context, annualAmountID string, userID string) error
}

// LoanSnapshotSvc manages append-only loan balance snapshots.
type LoanSnapshotSvc interface {
	// ListLoanSnapshots retrieves a property's snapshots, newest first.
	ListLoanSnapshots(ctx context.Context, propertyID string) ([]domain.LoanSnapshot, error)

	// CreateLoanSnapshot appends a new balance snapshot.
	CreateLoanSnapshot(ctx context.Context, req dto.CreateLoanSnapshotRequest, userID string) (*domain.LoanSnapshot, error)

	// DeleteLoanSnapshot removes one snapshot row.
	DeleteLoanSnapshot(ctx context.Context, snapshotID string, userID string) error
}
