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

// recurringService manages standing charge rules. DayOfMonth is capped at 28
// so every month of the year has a valid due date.
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	categoryRepo  portsrepo.CategoryReader
	propertyRepo  portsrepo.PropertyReader
}

// RecurringServiceOption is a functional option for configuring the recurring service
type RecurringServiceOption func(*recurringService)

// WithRecurringCategoryReader sets the category reader used for validation.
func WithRecurringCategoryReader(repo portsrepo.CategoryReader) RecurringServiceOption {
	return func(s *recurringService) {
		s.categoryRepo = repo
	}
}

// WithRecurringPropertyReader sets the property reader used for validation.
func WithRecurringPropertyReader(repo portsrepo.PropertyReader) RecurringServiceOption {
	return func(s *recurringService) {
		s.propertyRepo = repo
	}
}

// NewRecurringService creates a new recurring rule service with the provided options.
func NewRecurringService(repo portsrepo.RecurringRepositoryFacade, options ...RecurringServiceOption) portssvc.RecurringSvcFacade {
	svc := &recurringService{recurringRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure recurringService implements the RecurringSvcFacade interface
var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) GetRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringTransaction, error) {
	return s.recurringRepo.FindRecurringByID(ctx, recurringID)
}

func (s *recurringService) ListRecurringByProperty(ctx context.Context, propertyID string, activeOnly bool) ([]domain.RecurringTransaction, error) {
	return s.recurringRepo.ListRecurringByProperty(ctx, propertyID, activeOnly)
}

func (s *recurringService) CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringTransaction, error) {
	if req.DayOfMonth < 1 || req.DayOfMonth > 28 {
		return nil, fmt.Errorf("dayOfMonth must be within [1,28]: %w", apperrors.ErrValidation)
	}
	if s.propertyRepo != nil {
		if _, err := s.propertyRepo.FindPropertyByID(ctx, req.PropertyID); err != nil {
			return nil, err
		}
	}
	if s.categoryRepo != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	startMonth, err := domain.ParseMonth(req.StartMonth)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}
	var endMonth *domain.Month
	if req.EndMonth != nil {
		m, err := domain.ParseMonth(*req.EndMonth)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		if m.Before(startMonth) {
			return nil, fmt.Errorf("endMonth %s precedes startMonth %s: %w", m, startMonth, apperrors.ErrValidation)
		}
		endMonth = &m
	}

	now := time.Now().UTC()
	rule := domain.RecurringTransaction{
		RecurringID: uuid.NewString(),
		PropertyID:  req.PropertyID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Payee:       req.Payee,
		Memo:        req.Memo,
		DayOfMonth:  req.DayOfMonth,
		StartMonth:  startMonth,
		EndMonth:    endMonth,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.recurringRepo.SaveRecurring(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save recurring rule", slog.String("property_id", req.PropertyID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring rule created", slog.String("recurring_id", rule.RecurringID))
	return &rule, nil
}

func (s *recurringService) UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringTransaction, error) {
	stored, err := s.recurringRepo.FindRecurringByID(ctx, recurringID)
	if err != nil {
		return nil, err
	}

	updated := *stored
	if req.CategoryID != nil {
		if s.categoryRepo != nil {
			if _, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
				return nil, err
			}
		}
		updated.CategoryID = *req.CategoryID
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
	if req.DayOfMonth != nil {
		if *req.DayOfMonth < 1 || *req.DayOfMonth > 28 {
			return nil, fmt.Errorf("dayOfMonth must be within [1,28]: %w", apperrors.ErrValidation)
		}
		updated.DayOfMonth = *req.DayOfMonth
	}
	if req.StartMonth != nil {
		m, err := domain.ParseMonth(*req.StartMonth)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
		}
		updated.StartMonth = m
	}
	if req.EndMonth != nil {
		if *req.EndMonth == "" {
			updated.EndMonth = nil
		} else {
			m, err := domain.ParseMonth(*req.EndMonth)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
			}
			updated.EndMonth = &m
		}
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if updated.EndMonth != nil && updated.EndMonth.Before(updated.StartMonth) {
		return nil, fmt.Errorf("endMonth %s precedes startMonth %s: %w", updated.EndMonth, updated.StartMonth, apperrors.ErrValidation)
	}

	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.recurringRepo.UpdateRecurring(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update recurring rule", slog.String("recurring_id", recurringID))
		return nil, err
	}
	return &updated, nil
}

func (s *recurringService) DeactivateRecurring(ctx context.Context, recurringID string, userID string) error {
	if _, err := s.recurringRepo.FindRecurringByID(ctx, recurringID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeactivateRecurring(ctx, recurringID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring rule", slog.String("recurring_id", recurringID))
		return err
	}
	s.LogInfo(ctx, "Recurring rule deactivated", slog.String("recurring_id", recurringID))
	return nil
}
