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

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring rules and
// posting markers.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRecurringRepository implements portsrepo.RecurringRepositoryFacade
var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const recurringColumns = `recurring_transaction_id, property_id, category_id, amount, payee, memo, day_of_month, start_month, end_month, is_active, created_at, created_by, last_updated_at, last_updated_by`

// uqRecurringPostingMonth backs the scheduler's idempotence guarantee.
const uqRecurringPostingMonth = "uq_recurring_postings_rule_month"

func scanRecurring(row pgx.Row) (*domain.RecurringTransaction, error) {
	var rule domain.RecurringTransaction
	var startMonth string
	var endMonth sql.NullString
	if err := row.Scan(
		&rule.RecurringID,
		&rule.PropertyID,
		&rule.CategoryID,
		&rule.Amount,
		&rule.Payee,
		&rule.Memo,
		&rule.DayOfMonth,
		&startMonth,
		&endMonth,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.CreatedBy,
		&rule.LastUpdatedAt,
		&rule.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	m, err := domain.ParseMonth(startMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid start_month %q: %w", startMonth, err)
	}
	rule.StartMonth = m
	if endMonth.Valid {
		em, err := domain.ParseMonth(endMonth.String)
		if err != nil {
			return nil, fmt.Errorf("invalid end_month %q: %w", endMonth.String, err)
		}
		rule.EndMonth = &em
	}
	return &rule, nil
}

func (r *PgxRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE recurring_transaction_id = $1`
	rule, err := scanRecurring(r.Pool.QueryRow(ctx, query, recurringID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("recurring rule %s: %w", recurringID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find recurring rule %s: %w", recurringID, err)
	}
	return rule, nil
}

func (r *PgxRecurringRepository) ListRecurringByProperty(ctx context.Context, propertyID string, activeOnly bool) ([]domain.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE property_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY day_of_month, created_at, recurring_transaction_id`

	rows, err := r.Pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.RecurringTransaction{}
	for rows.Next() {
		rule, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring rules: %w", err)
	}
	return rules, nil
}

func (r *PgxRecurringRepository) ListPostedMonths(ctx context.Context, recurringID string) (map[domain.Month]bool, error) {
	query := `SELECT month FROM recurring_postings WHERE recurring_transaction_id = $1`
	rows, err := r.Pool.Query(ctx, query, recurringID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posted months: %w", err)
	}
	defer rows.Close()

	posted := map[domain.Month]bool{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan posted month: %w", err)
		}
		m, err := domain.ParseMonth(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid posted month %q: %w", raw, err)
		}
		posted[m] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posted months: %w", err)
	}
	return posted, nil
}

func (r *PgxRecurringRepository) SaveRecurring(ctx context.Context, rule domain.RecurringTransaction) error {
	query := `
		INSERT INTO recurring_transactions (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	var endMonth *string
	if rule.EndMonth != nil {
		s := rule.EndMonth.String()
		endMonth = &s
	}
	_, err := r.Pool.Exec(ctx, query,
		rule.RecurringID,
		rule.PropertyID,
		rule.CategoryID,
		rule.Amount,
		rule.Payee,
		rule.Memo,
		rule.DayOfMonth,
		rule.StartMonth.String(),
		endMonth,
		rule.IsActive,
		rule.CreatedAt,
		rule.CreatedBy,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("recurring rule %s: %w", rule.RecurringID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save recurring rule %s: %w", rule.RecurringID, err)
	}
	return nil
}

func (r *PgxRecurringRepository) UpdateRecurring(ctx context.Context, rule domain.RecurringTransaction) error {
	query := `
		UPDATE recurring_transactions
		SET category_id = $2, amount = $3, payee = $4, memo = $5, day_of_month = $6,
			start_month = $7, end_month = $8, is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE recurring_transaction_id = $1
	`
	var endMonth *string
	if rule.EndMonth != nil {
		s := rule.EndMonth.String()
		endMonth = &s
	}
	tag, err := r.Pool.Exec(ctx, query,
		rule.RecurringID,
		rule.CategoryID,
		rule.Amount,
		rule.Payee,
		rule.Memo,
		rule.DayOfMonth,
		rule.StartMonth.String(),
		endMonth,
		rule.IsActive,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring rule %s: %w", rule.RecurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring rule %s: %w", rule.RecurringID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error {
	query := `
		UPDATE recurring_transactions
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE recurring_transaction_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query, recurringID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate recurring rule %s: %w", recurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurring rule %s: %w", recurringID, apperrors.ErrNotFound)
	}
	return nil
}

// CreatePostingWithTransaction writes a transaction and its posting marker
// atomically. The transaction row goes in first because the marker's
// transaction_id FK is checked per statement; the unique
// (recurring_transaction_id, month) index still arbitrates concurrent runs,
// and a loser's rollback discards the transaction row along with the marker.
func (r *PgxRecurringRepository) CreatePostingWithTransaction(ctx context.Context, posting domain.RecurringPosting, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin posting transaction: %w", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return err
	}

	markerQuery := `
		INSERT INTO recurring_postings (recurring_transaction_id, month, transaction_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, markerQuery, posting.RecurringID, posting.Month.String(), posting.TransactionID, txn.CreatedAt); err != nil {
		if isUniqueViolation(err, uqRecurringPostingMonth) {
			return fmt.Errorf("rule %s month %s: %w", posting.RecurringID, posting.Month, apperrors.ErrAlreadyPosted)
		}
		return fmt.Errorf("failed to insert posting marker: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit posting: %w", err)
	}
	return nil
}
