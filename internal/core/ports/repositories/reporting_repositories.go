package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// LedgerFilter narrows reporting reads over the joined ledger. Zero-valued
// fields are ignored. Tombstoned transactions are always excluded.
type LedgerFilter struct {
	From             *time.Time
	To               *time.Time
	PropertyID       string
	CategoryID       string
	IncludeTransfers bool
}

// ReportingRepository provides the read-only joined views the aggregator
// consumes. Implementations never mutate ledger state.
type ReportingRepository interface {
	// ListLedgerEntries retrieves live transactions joined to category and
	// property, ordered by date then transaction id.
	ListLedgerEntries(ctx context.Context, filter LedgerFilter) ([]domain.LedgerEntry, error)

	// ListAnnualLedgerEntries retrieves annual amounts joined to category and
	// property, ordered by year then property label. A zero year means all
	// years.
	ListAnnualLedgerEntries(ctx context.Context, year int, propertyID string, categoryID string) ([]domain.AnnualLedgerEntry, error)
}
