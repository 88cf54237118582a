package repositories

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// AnnualAmountReader defines read operations for once-per-year amounts.
type AnnualAmountReader interface {
	// ListAnnualAmounts retrieves annual amounts for a property, all years.
	ListAnnualAmounts(ctx context.Context, propertyID string) ([]domain.AnnualCategoryAmount, error)
}

// AnnualAmountWriter defines write operations for once-per-year amounts.
type AnnualAmountWriter interface {
	// UpsertAnnualAmount inserts or replaces the amount for one
	// (property, category, year) cell.
	UpsertAnnualAmount(ctx context.Context, amount domain.AnnualCategoryAmount) error

	// DeleteAnnualAmount removes one annual amount row.
	DeleteAnnualAmount(ctx context.Context, annualAmountID string) error
}

// AnnualAmountRepositoryFacade combines the annual amount interfaces.
type AnnualAmountRepositoryFacade interface {
	AnnualAmountReader
	AnnualAmountWriter
}
