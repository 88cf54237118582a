package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/dto"
)

// transactionService records manual ledger entries. Every write normalizes
// the amount to the category's sign convention, the same normalization the
// posting scheduler applies, so the sign invariant holds regardless of how a
// transaction entered the ledger.
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	categoryRepo    portsrepo.CategoryReader
	propertyRepo    portsrepo.PropertyReader
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionCategoryReader sets the category reader used for sign normalization.
func WithTransactionCategoryReader(repo portsrepo.CategoryReader) TransactionServiceOption {
	return func(s *transactionService) {
		s.categoryRepo = repo
	}
}

// WithTransactionPropertyReader sets the property reader used for existence checks.
func WithTransactionPropertyReader(repo portsrepo.PropertyReader) TransactionServiceOption {
	return func(s *transactionService) {
		s.propertyRepo = repo
	}
}

// NewTransactionService creates a new transaction service with the provided options.
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{transactionRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure transactionService implements the TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

func (s *transactionService) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	return s.transactionRepo.ListTransactions(ctx, filter)
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if s.propertyRepo != nil {
		if _, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID); err != nil {
			return nil, err
		}
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	date, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	statementMonth := ""
	if req.StatementMonth != nil {
		if _, err := domain.ParseMonth(*req.StatementMonth); err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		statementMonth = *req.StatementMonth
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		PropertyID:     req.PropertyID,
		CategoryID:     req.CategoryID,
		Date:           date,
		Amount:         domain.NormalizeAmount(req.Amount, category.Type),
		Payee:          req.Payee,
		Memo:           req.Memo,
		StatementMonth: statementMonth,
		Source:         domain.SourceManual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("property_id", req.PropertyID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("category_id", txn.CategoryID))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	stored, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *stored
	if req.CategoryID != nil {
		updated.CategoryID = *req.CategoryID
	}
	if req.Date != nil {
		date, err := parseDay(*req.Date)
		if err != nil {
			return nil, err
		}
		updated.Date = date
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Payee != nil {
		updated.Payee = *req.Payee
	}
	if req.Memo != nil {
		updated.Memo = *req.Memo
	}
	if req.StatementMonth != nil {
		if *req.StatementMonth != "" {
			if _, err := domain.ParseMonth(*req.StatementMonth); err != nil {
				return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
			}
		}
		updated.StatementMonth = *req.StatementMonth
	}

	// Re-normalize against the (possibly new) category.
	category, err := s.categoryRepo.FindCategoryByID(ctx, updated.CategoryID)
	if err != nil {
		return nil, err
	}
	updated.Amount = domain.NormalizeAmount(updated.Amount, category.Type)
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.transactionRepo.UpdateTransaction(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return &updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	stored, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if stored.IsDeleted() {
		return nil
	}
	if err := s.transactionRepo.SoftDeleteTransaction(ctx, transactionID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction soft-deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) RestoreTransaction(ctx context.Context, transactionID string, userID string) error {
	stored, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if !stored.IsDeleted() {
		return nil
	}
	if err := s.transactionRepo.RestoreTransaction(ctx, transactionID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to restore transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction restored", slog.String("transaction_id", transactionID))
	return nil
}

// parseDay parses a "2006-01-02" calendar day into UTC midnight.
func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, apperrors.ErrValidation)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
