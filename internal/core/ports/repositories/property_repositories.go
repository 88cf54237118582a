package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// PropertyReader defines read operations for property data.
type PropertyReader interface {
	// FindPropertyByID retrieves a specific property by its unique identifier.
	FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error)

	// ListProperties retrieves properties ordered by label, inactive rows
	// included when includeInactive is set.
	ListProperties(ctx context.Context, includeInactive bool) ([]domain.Property, error)
}

// PropertyWriter defines write operations for property data.
type PropertyWriter interface {
	// SaveProperty persists a new property.
	SaveProperty(ctx context.Context, property domain.Property) error

	// UpdateProperty updates an existing property's details.
	UpdateProperty(ctx context.Context, property domain.Property) error

	// SetPropertyStatus flips a property between active and inactive.
	SetPropertyStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, userID string, now time.Time) error
}

// PropertyRepositoryFacade combines all property repository interfaces.
type PropertyRepositoryFacade interface {
	PropertyReader
	PropertyWriter
}
