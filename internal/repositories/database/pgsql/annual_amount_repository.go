package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

type PgxAnnualAmountRepository struct {
	BaseRepository
}

// newPgxAnnualAmountRepository creates a new repository for annual amounts.
func newPgxAnnualAmountRepository(pool *pgxpool.Pool) portsrepo.AnnualAmountRepositoryFacade {
	return &PgxAnnualAmountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAnnualAmountRepository implements portsrepo.AnnualAmountRepositoryFacade
var _ portsrepo.AnnualAmountRepositoryFacade = (*PgxAnnualAmountRepository)(nil)

const annualAmountColumns = `annual_amount_id, property_id, category_id, year, amount, created_at, created_by, last_updated_at, last_updated_by`

func scanAnnualAmount(row pgx.Row) (*domain.AnnualCategoryAmount, error) {
	var a domain.AnnualCategoryAmount
	if err := row.Scan(
		&a.AnnualAmountID,
		&a.PropertyID,
		&a.CategoryID,
		&a.Year,
		&a.Amount,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PgxAnnualAmountRepository) ListAnnualAmounts(ctx context.Context, propertyID string) ([]domain.AnnualCategoryAmount, error) {
	query := `SELECT ` + annualAmountColumns + ` FROM annual_category_amounts WHERE property_id = $1 ORDER BY year, category_id`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list annual amounts: %w", err)
	}
	defer rows.Close()

	amounts := []domain.AnnualCategoryAmount{}
	for rows.Next() {
		a, err := scanAnnualAmount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan annual amount: %w", err)
		}
		amounts = append(amounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate annual amounts: %w", err)
	}
	return amounts, nil
}

// UpsertAnnualAmount replaces the amount for the (property, category, year)
// cell in place, keeping the original row id and created audit fields.
func (r *PgxAnnualAmountRepository) UpsertAnnualAmount(ctx context.Context, amount domain.AnnualCategoryAmount) error {
	query := `
		INSERT INTO annual_category_amounts (` + annualAmountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (property_id, category_id, year)
		DO UPDATE SET amount = EXCLUDED.amount,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
	`
	_, err := r.Pool.Exec(ctx, query,
		amount.AnnualAmountID,
		amount.PropertyID,
		amount.CategoryID,
		amount.Year,
		amount.Amount,
		amount.CreatedAt,
		amount.CreatedBy,
		amount.LastUpdatedAt,
		amount.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert annual amount for property %s category %s year %d: %w",
			amount.PropertyID, amount.CategoryID, amount.Year, err)
	}
	return nil
}

func (r *PgxAnnualAmountRepository) DeleteAnnualAmount(ctx context.Context, annualAmountID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM annual_category_amounts WHERE annual_amount_id = $1`, annualAmountID)
	if err != nil {
		return fmt.Errorf("failed to delete annual amount %s: %w", annualAmountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("annual amount %s: %w", annualAmountID, apperrors.ErrNotFound)
	}
	return nil
}
