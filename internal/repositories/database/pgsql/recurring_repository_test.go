package pgsql_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/repositories/database/pgsql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newPostingFixtures() (domain.RecurringPosting, domain.Transaction) {
	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:  uuid.NewString(),
		PropertyID:     uuid.NewString(),
		CategoryID:     uuid.NewString(),
		Date:           time.Date(2024, time.May, 5, 0, 0, 0, 0, time.UTC),
		Amount:         decimal.RequireFromString("-1450.00"),
		Payee:          "First National",
		StatementMonth: "2024-05",
		Source:         domain.SourceRecurring,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     uuid.NewString(),
			LastUpdatedAt: now,
			LastUpdatedBy: uuid.NewString(),
		},
	}
	posting := domain.RecurringPosting{
		RecurringID:   uuid.NewString(),
		Month:         domain.Month{Year: 2024, Mon: time.May},
		TransactionID: txn.TransactionID,
	}
	return posting, txn
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func transactionInsertArgs() []any { return anyArgs(14) }

func postingInsertArgs() []any { return anyArgs(4) }

// The marker's transaction_id references transactions, and the constraint is
// checked per statement, so the transaction row has to land first.
func TestCreatePostingWithTransaction_WritesTransactionBeforeMarker(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := &pgsql.PgxRecurringRepository{BaseRepository: pgsql.BaseRepository{Pool: mockPool}}
	posting, txn := newPostingFixtures()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(transactionInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO recurring_postings").
		WithArgs(postingInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	err = repo.CreatePostingWithTransaction(context.Background(), posting, txn)

	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreatePostingWithTransaction_LostRaceRollsBackBothRows(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := &pgsql.PgxRecurringRepository{BaseRepository: pgsql.BaseRepository{Pool: mockPool}}
	posting, txn := newPostingFixtures()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs(transactionInsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO recurring_postings").
		WithArgs(postingInsertArgs()...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_recurring_postings_rule_month"})
	mockPool.ExpectRollback()

	err = repo.CreatePostingWithTransaction(context.Background(), posting, txn)

	require.ErrorIs(t, err, apperrors.ErrAlreadyPosted)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
