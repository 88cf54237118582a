package repositories

import (
	"context"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// RecurringReader defines read operations for recurring rules and their
// posting markers.
type RecurringReader interface {
	// FindRecurringByID retrieves a recurring rule by its unique identifier.
	FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringTransaction, error)

	// ListRecurringByProperty retrieves a property's recurring rules ordered
	// by day_of_month ascending then creation time, for deterministic posting
	// summaries.
	ListRecurringByProperty(ctx context.Context, propertyID string, activeOnly bool) ([]domain.RecurringTransaction, error)

	// ListPostedMonths returns the set of months already posted for a rule.
	ListPostedMonths(ctx context.Context, recurringID string) (map[domain.Month]bool, error)
}

// RecurringWriter defines write operations for recurring rules.
type RecurringWriter interface {
	// SaveRecurring persists a new recurring rule.
	SaveRecurring(ctx context.Context, rule domain.RecurringTransaction) error

	// UpdateRecurring updates an existing recurring rule.
	UpdateRecurring(ctx context.Context, rule domain.RecurringTransaction) error

	// DeactivateRecurring stops a rule from producing further postings.
	DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error
}

// PostingWriter performs the scheduler's atomic materialization step.
type PostingWriter interface {
	// CreatePostingWithTransaction inserts the posting marker and its ledger
	// transaction in one database transaction. When the (recurring_id, month)
	// unique key already exists it returns apperrors.ErrAlreadyPosted and
	// writes nothing: a caller losing a concurrent race observes the benign
	// outcome, never a duplicate transaction.
	CreatePostingWithTransaction(ctx context.Context, posting domain.RecurringPosting, txn domain.Transaction) error
}

// RecurringRepositoryFacade combines all recurring repository interfaces.
type RecurringRepositoryFacade interface {
	RecurringReader
	RecurringWriter
	PostingWriter
}
