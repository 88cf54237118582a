package services

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// ReportingService is the read-only financial reporting aggregator. Identical
// underlying data always yields byte-identical output: all row orderings use
// stable sort keys and monetary sums use exact decimal accumulation. Unknown
// property or category ids degrade to empty reports rather than erroring.
type ReportingService interface {
	// ProfitLossByProperty totals income and expenses per property over a
	// date range. An empty propertyID covers all properties.
	ProfitLossByProperty(ctx context.Context, from, to time.Time, propertyID string) (*domain.ProfitLossReport, error)

	// NetProfitByProperty ranks every property's net profit over a lookback
	// window of whole years ending at the anchor date. lookbackYears of zero
	// means all history. The anchor is passed explicitly so reports are
	// reproducible with fixed dates.
	NetProfitByProperty(ctx context.Context, lookbackYears int, anchor time.Time) (*domain.NetProfitReport, error)

	// NetProfitForProperty is the single-property variant.
	NetProfitForProperty(ctx context.Context, propertyID string, lookbackYears int, anchor time.Time) (*domain.NetProfitReport, error)

	// ReturnOnEquity computes per-property ROE for one year against one
	// valuation source. Rows with missing valuation or zero equity carry a
	// null RoePct.
	ReturnOnEquity(ctx context.Context, year int, source domain.ValuationSource, propertyID string) (*domain.ReturnOnEquityReport, error)

	// IncomeTrendByYear pivots one category's yearly totals, optionally
	// scoped to a property.
	IncomeTrendByYear(ctx context.Context, categoryID string, propertyID string) (*domain.CategoryTrendReport, error)

	// ExpenseTrendByYear is the expense-side variant; its Display series
	// flips expense magnitudes positive for charting.
	ExpenseTrendByYear(ctx context.Context, categoryID string, propertyID string) (*domain.CategoryTrendReport, error)
}
