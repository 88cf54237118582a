package services

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/dto"
)

// PropertyReaderSvc defines read operations for property data.
type PropertyReaderSvc interface {
	// GetPropertyByID retrieves a specific property by its unique identifier.
	GetPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListProperties retrieves properties ordered by label.
	ListProperties(ctx context.Context, includeInactive bool) ([]domain.Property, error)
}

// PropertyWriterSvc defines write operations for property data.
type PropertyWriterSvc interface {
	// CreateProperty persists a new property.
	CreateProperty(ctx context.Context, req dto.CreatePropertyRequest, userID string) (*domain.Property, error)

	// UpdateProperty updates an existing property's details, valuation
	// estimates included.
	UpdateProperty(ctx context.Context, propertyID string, req dto.UpdatePropertyRequest, userID string) (*domain.Property, error)

	// SetPropertyStatus flips a property between active and inactive.
	SetPropertyStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, userID string) error
}

// PropertySvcFacade combines all property-related service interfaces.
type PropertySvcFacade interface {
	PropertyReaderSvc
	PropertyWriterSvc
}
