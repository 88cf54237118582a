package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxLoanSnapshotRepository struct {
	BaseRepository
}

// newPgxLoanSnapshotRepository creates a new repository for loan snapshots.
func newPgxLoanSnapshotRepository(pool *pgxpool.Pool) portsrepo.LoanSnapshotRepositoryFacade {
	return &PgxLoanSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLoanSnapshotRepository implements portsrepo.LoanSnapshotRepositoryFacade
var _ portsrepo.LoanSnapshotRepositoryFacade = (*PgxLoanSnapshotRepository)(nil)

const loanSnapshotColumns = `snapshot_id, property_id, as_of_date, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanLoanSnapshot(row pgx.Row) (*domain.LoanSnapshot, error) {
	var s domain.LoanSnapshot
	if err := row.Scan(
		&s.SnapshotID,
		&s.PropertyID,
		&s.AsOfDate,
		&s.Balance,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxLoanSnapshotRepository) ListLoanSnapshots(ctx context.Context, propertyID string) ([]domain.LoanSnapshot, error) {
	query := `SELECT ` + loanSnapshotColumns + ` FROM loan_snapshots WHERE property_id = $1 ORDER BY as_of_date DESC, snapshot_id`
	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []domain.LoanSnapshot{}
	for rows.Next() {
		s, err := scanLoanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan snapshot: %w", err)
		}
		snapshots = append(snapshots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loan snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *PgxLoanSnapshotRepository) FindLatestBalanceAtOrBefore(ctx context.Context, propertyID string, asOf time.Time) (decimal.NullDecimal, error) {
	query := `
		SELECT balance FROM loan_snapshots
		WHERE property_id = $1 AND as_of_date <= $2
		ORDER BY as_of_date DESC, created_at DESC
		LIMIT 1
	`
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, propertyID, asOf).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, fmt.Errorf("failed to find loan balance for property %s: %w", propertyID, err)
	}
	return decimal.NewNullDecimal(balance), nil
}

func (r *PgxLoanSnapshotRepository) SaveLoanSnapshot(ctx context.Context, snapshot domain.LoanSnapshot) error {
	query := `
		INSERT INTO loan_snapshots (` + loanSnapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.Pool.Exec(ctx, query,
		snapshot.SnapshotID,
		snapshot.PropertyID,
		snapshot.AsOfDate,
		snapshot.Balance,
		snapshot.CreatedAt,
		snapshot.CreatedBy,
		snapshot.LastUpdatedAt,
		snapshot.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan snapshot %s: %w", snapshot.SnapshotID, err)
	}
	return nil
}

func (r *PgxLoanSnapshotRepository) DeleteLoanSnapshot(ctx context.Context, snapshotID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM loan_snapshots WHERE snapshot_id = $1`, snapshotID)
	if err != nil {
		return fmt.Errorf("failed to delete loan snapshot %s: %w", snapshotID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan snapshot %s: %w", snapshotID, apperrors.ErrNotFound)
	}
	return nil
}
