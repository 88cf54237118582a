package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCategoryRepository implements portsrepo.CategoryRepositoryFacade
var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, name, type, parent_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

// categoryTreeLockID keys the advisory lock serializing category mutations.
// The tree is small and cycle checks need the whole of it to hold still
// until the write commits.
const categoryTreeLockID = 74201

// InCategoryTx runs fn against a repository bound to one transaction. An
// advisory lock taken up front serializes mutating callers, so the reads fn
// makes stay consistent with its eventual write.
func (r *PgxCategoryRepository) InCategoryTx(ctx context.Context, fn func(repo portsrepo.CategoryRepositoryFacade) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin category transaction: %w", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, categoryTreeLockID); err != nil {
		return fmt.Errorf("failed to lock category tree: %w", err)
	}

	txRepo := &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: tx}}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit category transaction: %w", err)
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	var parentID sql.NullString
	if err := row.Scan(
		&c.CategoryID,
		&c.Name,
		&c.Type,
		&parentID,
		&c.IsActive,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	return &c, nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1`
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return category, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, includeInactive bool) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY type, lower(name), category_id`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (r *PgxCategoryRepository) FindCategoryByTypeAndName(ctx context.Context, categoryType domain.CategoryType, normalizedName string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE type = $1 AND lower(btrim(name)) = $2`
	category, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryType, normalizedName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return category, nil
}

func (r *PgxCategoryRepository) GetCategoryUsage(ctx context.Context, categoryID string) (domain.CategoryUsage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM categories WHERE parent_id = $1),
			(SELECT COUNT(*) FROM transactions WHERE category_id = $1),
			(SELECT COUNT(*) FROM recurring_transactions WHERE category_id = $1),
			(SELECT COUNT(*) FROM annual_category_amounts WHERE category_id = $1)
	`
	var usage domain.CategoryUsage
	if err := r.Pool.QueryRow(ctx, query, categoryID).Scan(
		&usage.Children,
		&usage.Transactions,
		&usage.RecurringRules,
		&usage.AnnualAmounts,
	); err != nil {
		return domain.CategoryUsage{}, fmt.Errorf("failed to count category references: %w", err)
	}
	return usage, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (category_id, name, type, parent_id, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Type,
		nullString(category.ParentID),
		category.IsActive,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("category %q for type %s: %w", category.Name, category.Type, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save category %s: %w", category.CategoryID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, type = $3, parent_id = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE category_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query,
		category.CategoryID,
		category.Name,
		category.Type,
		nullString(category.ParentID),
		category.IsActive,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("category %q for type %s: %w", category.Name, category.Type, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update category %s: %w", category.CategoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", category.CategoryID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, userID string, now time.Time) error {
	query := `
		UPDATE categories
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE category_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query, categoryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", categoryID, apperrors.ErrNotFound)
	}
	return nil
}

// nullString maps an empty string to SQL NULL for nullable FK columns.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
