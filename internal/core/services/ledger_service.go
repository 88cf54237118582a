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

// annualAmountService manages once-per-year amounts. Upserts normalize the
// sign to the category's convention, same as every other ledger write.
type annualAmountService struct {
	BaseService
	annualRepo   portsrepo.AnnualAmountRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	propertyRepo portsrepo.PropertyReader
}

// NewAnnualAmountService creates a new annual amount service.
func NewAnnualAmountService(repo portsrepo.AnnualAmountRepositoryFacade, categoryRepo portsrepo.CategoryReader, propertyRepo portsrepo.PropertyReader) portssvc.AnnualAmountSvc {
	return &annualAmountService{annualRepo: repo, categoryRepo: categoryRepo, propertyRepo: propertyRepo}
}

// Ensure annualAmountService implements the AnnualAmountSvc interface
var _ portssvc.AnnualAmountSvc = (*annualAmountService)(nil)

func (s *annualAmountService) ListAnnualAmounts(ctx context.Context, propertyID string) ([]domain.AnnualCategoryAmount, error) {
	return s.annualRepo.ListAnnualAmounts(ctx, propertyID)
}

func (s *annualAmountService) UpsertAnnualAmount(ctx context.Context, req dto.UpsertAnnualAmountRequest, userID string) (*domain.AnnualCategoryAmount, error) {
	if s.propertyRepo != nil {
		if _, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID); err != nil {
			return nil, err
		}
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	amount := domain.AnnualCategoryAmount{
		AnnualAmountID: uuid.NewString(),
		PropertyID:     req.PropertyID,
		CategoryID:     req.CategoryID,
		Year:           req.Year,
		Amount:         domain.NormalizeAmount(req.Amount, category.Type),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.annualRepo.UpsertAnnualAmount(ctx, amount); err != nil {
		s.LogError(ctx, err, "Failed to upsert annual amount",
			slog.String("property_id", req.PropertyID),
			slog.Int("year", req.Year))
		return nil, err
	}

	s.LogInfo(ctx, "Annual amount upserted",
		slog.String("property_id", req.PropertyID),
		slog.String("category_id", req.CategoryID),
		slog.Int("year", req.Year))
	return &amount, nil
}

func (s *annualAmountService) DeleteAnnualAmount(ctx context.Context, annualAmountID string, userID string) error {
	if err := s.annualRepo.DeleteAnnualAmount(ctx, annualAmountID); err != nil {
		s.LogError(ctx, err, "Failed to delete annual amount", slog.String("annual_amount_id", annualAmountID))
		return err
	}
	return nil
}

// loanSnapshotService manages append-only loan balance observations.
type loanSnapshotService struct {
	BaseService
	loanRepo     portsrepo.LoanSnapshotRepositoryFacade
	propertyRepo portsrepo.PropertyReader
}

// NewLoanSnapshotService creates a new loan snapshot service.
func NewLoanSnapshotService(repo portsrepo.LoanSnapshotRepositoryFacade, propertyRepo portsrepo.PropertyReader) portssvc.LoanSnapshotSvc {
	return &loanSnapshotService{loanRepo: repo, propertyRepo: propertyRepo}
}

// Ensure loanSnapshotService implements the LoanSnapshotSvc interface
var _ portssvc.LoanSnapshotSvc = (*loanSnapshotService)(nil)

func (s *loanSnapshotService) ListLoanSnapshots(ctx context.Context, propertyID string) ([]domain.LoanSnapshot, error) {
	return s.loanRepo.ListLoanSnapshots(ctx, propertyID)
}

func (s *loanSnapshotService) CreateLoanSnapshot(ctx context.Context, req dto.CreateLoanSnapshotRequest, userID string) (*domain.LoanSnapshot, error) {
	if s.propertyRepo != nil {
		if _, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID); err != nil {
			return nil, err
		}
	}

	asOf, err := time.Parse("2006-01-02", req.AsOfDate)
	if err != nil {
		return nil, fmt.Errorf("invalid asOfDate %q: %w", req.AsOfDate, apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	snapshot := domain.LoanSnapshot{
		SnapshotID: uuid.NewString(),
		PropertyID: req.PropertyID,
		AsOfDate:   time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC),
		Balance:    req.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.loanRepo.SaveLoanSnapshot(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to save loan snapshot", slog.String("property_id", req.PropertyID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan snapshot recorded",
		slog.String("property_id", req.PropertyID),
		slog.String("as_of", snapshot.AsOfDate.Format("2006-01-02")))
	return &snapshot, nil
}

func (s *loanSnapshotService) DeleteLoanSnapshot(ctx context.Context, snapshotID string, userID string) error {
	if err := s.loanRepo.DeleteLoanSnapshot(ctx, snapshotID); err != nil {
		s.LogError(ctx, err, "Failed to delete loan snapshot", slog.String("snapshot_id", snapshotID))
		return err
	}
	return nil
}
