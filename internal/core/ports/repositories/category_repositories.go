package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// CategoryReader defines read operations for category data.
type CategoryReader interface {
	// FindCategoryByID retrieves a specific category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// ListCategories retrieves the full category set, inactive rows included
	// when includeInactive is set. Ordered by type then name for stable output.
	ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error)

	// FindCategoryByTypeAndName looks up a category by type and
	// trim-lowercased name, across active and inactive rows alike.
	FindCategoryByTypeAndName(ctx context.Context, categoryType domain.CategoryType, normalizedName string) (*domain.Category, error)

	// GetCategoryUsage counts the children, transactions, recurring rules,
	// and annual amounts referencing a category.
	GetCategoryUsage(ctx context.Context, categoryID string) (domain.CategoryUsage, error)
}

// CategoryWriter defines write operations for category data.
type CategoryWriter interface {
	// SaveCategory persists a new category. A unique index on
	// (type, lower(name)) maps violations to apperrors.ErrDuplicate.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates an existing category's details.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeactivateCategory soft-deletes a category by clearing is_active.
	DeactivateCategory(ctx context.Context, categoryID string, userID string, now time.Time) error

	// DeleteCategory removes an unreferenced category row.
	DeleteCategory(ctx context.Context, categoryID string) error
}

// CategoryTxRunner scopes category work to one database transaction.
type CategoryTxRunner interface {
	// InCategoryTx runs fn against a repository view bound to a single
	// transaction, committing when fn returns nil and rolling back otherwise.
	// Concurrent category mutations serialize on this scope, so structural
	// checks made inside fn still hold when the write lands.
	InCategoryTx(ctx context.Context, fn func(repo CategoryRepositoryFacade) error) error
}

// CategoryRepositoryFacade combines all category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
	CategoryTxRunner
}
