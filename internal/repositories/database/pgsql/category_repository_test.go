package pgsql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	"github.com/rentledger/rentledger/internal/repositories/database/pgsql"
	"github.com/stretchr/testify/require"
)

func TestInCategoryTx_LocksTreeAndCommitsScopedWork(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := &pgsql.PgxCategoryRepository{BaseRepository: pgsql.BaseRepository{Pool: mockPool}}
	categoryID := uuid.NewString()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("pg_advisory_xact_lock").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectQuery("SELECT").
		WithArgs(categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"children", "transactions", "recurring", "annual"}).
			AddRow(0, 0, 0, 0))
	mockPool.ExpectExec("DELETE FROM categories").
		WithArgs(categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectCommit()

	err = repo.InCategoryTx(context.Background(), func(scoped portsrepo.CategoryRepositoryFacade) error {
		usage, err := scoped.GetCategoryUsage(context.Background(), categoryID)
		if err != nil {
			return err
		}
		if usage.IsReferenced() {
			return scoped.DeactivateCategory(context.Background(), categoryID, "tester", time.Now().UTC())
		}
		return scoped.DeleteCategory(context.Background(), categoryID)
	})

	require.NoError(t, err)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestInCategoryTx_RollsBackWhenScopedWorkFails(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := &pgsql.PgxCategoryRepository{BaseRepository: pgsql.BaseRepository{Pool: mockPool}}
	boom := errors.New("parent vanished")

	mockPool.ExpectBegin()
	mockPool.ExpectExec("pg_advisory_xact_lock").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mockPool.ExpectRollback()

	err = repo.InCategoryTx(context.Background(), func(scoped portsrepo.CategoryRepositoryFacade) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	require.NoError(t, mockPool.ExpectationsWereMet())
}
