package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	categoryRepo := newPgxCategoryRepository(dbPool)
	propertyRepo := newPgxPropertyRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)
	annualAmountRepo := newPgxAnnualAmountRepository(dbPool)
	loanSnapshotRepo := newPgxLoanSnapshotRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CategoryRepo:     categoryRepo,
		PropertyRepo:     propertyRepo,
		TransactionRepo:  transactionRepo,
		RecurringRepo:    recurringRepo,
		AnnualAmountRepo: annualAmountRepo,
		LoanSnapshotRepo: loanSnapshotRepo,
		ReportingRepo:    reportingRepo,
	}
}
