package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/dto"
	"github.com/shopspring/decimal"
)

// propertyService implements the PropertySvcFacade interface
type propertyService struct {
	BaseService
	propertyRepo portsrepo.PropertyRepositoryFacade
}

// NewPropertyService creates a new property service.
func NewPropertyService(repo portsrepo.PropertyRepositoryFacade) portssvc.PropertySvcFacade {
	return &propertyService{propertyRepo: repo}
}

// Ensure propertyService implements the PropertySvcFacade interface
var _ portssvc.PropertySvcFacade = (*propertyService)(nil)

func (s *propertyService) GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	return s.propertyRepo.FindPropertyByID(ctx, propertyID)
}

func (s *propertyService) ListProperties(ctx context.Context, includeInactive bool) ([]domain.Property, error) {
	return s.propertyRepo.ListProperties(ctx, includeInactive)
}

func (s *propertyService) CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, userID string) (*domain.Property, error) {
	now := time.Now().UTC()
	property := domain.Property{
		PropertyID:   uuid.NewString(),
		Nickname:     req.Nickname,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Status:       domain.PropertyActive,
		ZillowValue:  toNullDecimal(req.ZillowValue),
		RedfinValue:  toNullDecimal(req.RedfinValue),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.propertyRepo.SaveProperty(ctx, property); err != nil {
		s.LogError(ctx, err, "Failed to save property", slog.String("address", req.AddressLine1))
		return nil, err
	}

	s.LogInfo(ctx, "Property created", slog.String("property_id", property.PropertyID))
	return &property, nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, userID string) (*domain.Property, error) {
	stored, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	updated := *stored
	if req.Nickname != nil {
		updated.Nickname = *req.Nickname
	}
	if req.AddressLine1 != nil {
		updated.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		updated.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		updated.City = *req.City
	}
	if req.State != nil {
		updated.State = *req.State
	}
	if req.PostalCode != nil {
		updated.PostalCode = *req.PostalCode
	}
	if req.ZillowValue != nil {
		updated.ZillowValue = toNullDecimal(req.ZillowValue)
	}
	if req.RedfinValue != nil {
		updated.RedfinValue = toNullDecimal(req.RedfinValue)
	}
	updated.LastUpdatedAt = time.Now().UTC()
	updated.LastUpdatedBy = userID

	if err := s.propertyRepo.UpdateProperty(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update property", slog.String("property_id", propertyID))
		return nil, err
	}

	return &updated, nil
}

func (s *propertyService) SetPropertyStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, userID string) error {
	if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
		return err
	}
	if err := s.propertyRepo.SetPropertyStatus(ctx, propertyID, status, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to set property status",
			slog.String("property_id", propertyID),
			slog.String("status", string(status)))
		return err
	}
	s.LogInfo(ctx, "Property status changed",
		slog.String("property_id", propertyID),
		slog.String("status", string(status)))
	return nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
