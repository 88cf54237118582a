package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// TransactionFilter narrows transaction list reads. Zero-valued fields are
// ignored.
type TransactionFilter struct {
	PropertyID     string
	CategoryID     string
	From           *time.Time
	To             *time.Time
	StatementMonth string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by id, tombstoned rows
	// included.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions matching the filter, ordered by
	// date then id for stable output.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction updates an existing transaction's details.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// SoftDeleteTransaction stamps the tombstone; the row remains restorable.
	SoftDeleteTransaction(ctx context.Context, transactionID string, userID string, now time.Time) error

	// RestoreTransaction clears the tombstone.
	RestoreTransaction(ctx context.Context, transactionID string, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
