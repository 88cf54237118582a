package services

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/dto"
)

// CategoryReaderSvc defines read operations for category data.
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a specific category by its unique identifier.
	GetCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories retrieves the category tree as a flat, stably ordered
	// list.
	ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error)
}

// CategoryWriterSvc defines validated mutations of the category tree. Every
// mutation enforces the structural invariants: acyclic parent chain, child
// type equals parent type, unique (type, name), and type changes only while
// the category is unreferenced.
type CategoryWriterSvc interface {
	// CreateCategory validates and persists a new category.
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)

	// UpdateCategory validates and applies a rename, retype, or reparent.
	UpdateCategory(ctx context.Context, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)

	// DeleteCategory removes an unreferenced category, or deactivates one
	// that is still referenced. The action taken is returned.
	DeleteCategory(ctx context.Context, categoryID string, userID string) (domain.DeleteAction, error)
}

// CategorySvcFacade combines all category-related service interfaces.
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
