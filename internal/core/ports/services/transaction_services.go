package services

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	"github.com/rentledger/rentledger/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction by id, tombstoned rows
	// included.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions matching the filter.
	ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for ledger transactions.
// Amounts are normalized to the category's sign convention on every write.
type TransactionWriterSvc interface {
	// CreateTransaction validates and persists a manual ledger entry.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateTransaction updates an existing transaction's details.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction stamps the soft-delete tombstone.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error

	// RestoreTransaction clears the tombstone.
	RestoreTransaction(ctx context.Context, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
