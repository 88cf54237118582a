package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CategoryRepo     CategoryRepositoryFacade
	PropertyRepo     PropertyRepositoryFacade
	TransactionRepo  TransactionRepositoryFacade
	RecurringRepo    RecurringRepositoryFacade
	AnnualAmountRepo AnnualAmountRepositoryFacade
	LoanSnapshotRepo LoanSnapshotRepositoryFacade
	ReportingRepo    ReportingRepository
}
