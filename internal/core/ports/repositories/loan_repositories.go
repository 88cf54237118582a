package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanSnapshotReader defines read operations for loan balance snapshots.
type LoanSnapshotReader interface {
	// ListLoanSnapshots retrieves a property's snapshots ordered by as_of_date
	// descending.
	ListLoanSnapshots(ctx context.Context, propertyID string) ([]domain.LoanSnapshot, error)

	// FindLatestBalanceAtOrBefore returns the balance of the most recent
	// snapshot dated at or before asOf. The result is invalid (null) when no
	// such snapshot exists.
	FindLatestBalanceAtOrBefore(ctx context.Context, propertyID string, asOf time.Time) (decimal.NullDecimal, error)
}

// LoanSnapshotWriter defines write operations for loan balance snapshots.
type LoanSnapshotWriter interface {
	// SaveLoanSnapshot appends a new balance snapshot.
	SaveLoanSnapshot(ctx context.Context, snapshot domain.LoanSnapshot) error

	// DeleteLoanSnapshot removes one snapshot row.
	DeleteLoanSnapshot(ctx context.Context, snapshotID string) error
}

// LoanSnapshotRepositoryFacade combines the loan snapshot interfaces.
type LoanSnapshotRepositoryFacade interface {
	LoanSnapshotReader
	LoanSnapshotWriter
}
