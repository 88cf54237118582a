package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, property_id, category_id, txn_date, amount, payee, memo, statement_month, source, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var statementMonth sql.NullString
	var deletedAt sql.NullTime
	if err := row.Scan(
		&t.TransactionID,
		&t.PropertyID,
		&t.CategoryID,
		&t.Date,
		&t.Amount,
		&t.Payee,
		&t.Memo,
		&statementMonth,
		&t.Source,
		&deletedAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	t.StatementMonth = statementMonth.String
	if deletedAt.Valid {
		ts := deletedAt.Time
		t.DeletedAt = &ts
	}
	return &t, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions`)

	conds := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if filter.PropertyID != "" {
		conds = append(conds, "property_id = "+arg(filter.PropertyID))
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = "+arg(filter.CategoryID))
	}
	if filter.From != nil {
		conds = append(conds, "txn_date >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "txn_date <= "+arg(*filter.To))
	}
	if filter.StatementMonth != "" {
		conds = append(conds, "statement_month = "+arg(filter.StatementMonth))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY txn_date, transaction_id")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(filter.Offset))
	}

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, r.Pool, txn)
}

// execer covers both pgxpool.Pool and pgx.Tx so the recurring repository can
// reuse the transaction insert inside its posting transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertTransaction(ctx context.Context, db execer, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := db.Exec(ctx, query,
		txn.TransactionID,
		txn.PropertyID,
		txn.CategoryID,
		txn.Date,
		txn.Amount,
		txn.Payee,
		txn.Memo,
		nullString(txn.StatementMonth),
		txn.Source,
		txn.DeletedAt,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET category_id = $2, txn_date = $3, amount = $4, payee = $5, memo = $6,
			statement_month = $7, last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.CategoryID,
		txn.Date,
		txn.Amount,
		txn.Payee,
		txn.Memo,
		nullString(txn.StatementMonth),
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) SoftDeleteTransaction(ctx context.Context, transactionID string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND deleted_at IS NULL
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) RestoreTransaction(ctx context.Context, transactionID string, userID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET deleted_at = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND deleted_at IS NOT NULL
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to restore transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}
