package services

import (
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Property = NewPropertyService(repos.PropertyRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		WithTransactionCategoryReader(repos.CategoryRepo),
		WithTransactionPropertyReader(repos.PropertyRepo),
	)

	container.Recurring = NewRecurringService(
		repos.RecurringRepo,
		WithRecurringCategoryReader(repos.CategoryRepo),
		WithRecurringPropertyReader(repos.PropertyRepo),
	)

	container.Posting = NewPostingService(
		repos.RecurringRepo,
		WithPostingCategoryReader(repos.CategoryRepo),
		WithPostingPropertyReader(repos.PropertyRepo),
	)

	container.AnnualAmount = NewAnnualAmountService(repos.AnnualAmountRepo, repos.CategoryRepo, repos.PropertyRepo)
	container.LoanSnapshot = NewLoanSnapshotService(repos.LoanSnapshotRepo, repos.PropertyRepo)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		WithReportingPropertyReader(repos.PropertyRepo),
		WithReportingCategoryReader(repos.CategoryRepo),
		WithReportingLoanReader(repos.LoanSnapshotRepo),
	)

	return container
}
