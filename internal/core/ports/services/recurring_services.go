package services

import (
	"context"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/dto"
)

// RecurringReaderSvc defines read operations for recurring rules.
type RecurringReaderSvc interface {
	// GetRecurringByID retrieves a recurring rule by its unique identifier.
	GetRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringTransaction, error)

	// ListRecurringByProperty retrieves a property's recurring rules.
	ListRecurringByProperty(ctx context.Context, propertyID string, activeOnly bool) ([]domain.RecurringTransaction, error)
}

// RecurringWriterSvc defines write operations for recurring rules.
type RecurringWriterSvc interface {
	// CreateRecurring validates and persists a new standing charge rule.
	CreateRecurring(ctx context.Context, req dto.CreateRecurringRequest, userID string) (*domain.RecurringTransaction, error)

	// UpdateRecurring updates an existing rule's details.
	UpdateRecurring(ctx context.Context, recurringID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringTransaction, error)

	// DeactivateRecurring stops a rule from producing further postings.
	DeactivateRecurring(ctx context.Context, recurringID string, userID string) error
}

// RecurringSvcFacade combines all recurring-rule service interfaces.
type RecurringSvcFacade interface {
	RecurringReaderSvc
	RecurringWriterSvc
}

// PostingSvc is the recurring posting scheduler. A single invocation catches
// up an arbitrary backlog: every unposted (rule, month) pair in range is
// materialized exactly once, concurrent callers included.
type PostingSvc interface {
	// PostUpToMonth posts all pending months for every active rule of the
	// property, up to and including targetMonth. A nil targetMonth defaults
	// to the current UTC calendar month.
	PostUpToMonth(ctx context.Context, propertyID string, targetMonth *domain.Month, userID string) (*domain.PostingSummary, error)
}
