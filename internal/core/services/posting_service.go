package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
)

// postingService materializes recurring rules into ledger transactions,
// exactly once per (rule, month). Users may not run it every month, so one
// invocation catches up an arbitrary backlog. Race safety rests on the
// database's unique (recurring_id, month) constraint: a caller losing a
// concurrent insert observes ErrAlreadyPosted and counts a skip.
type postingService struct {
	BaseService
	recurringRepo portsrepo.RecurringRepositoryFacade
	categoryRepo  portsrepo.CategoryReader
	propertyRepo  portsrepo.PropertyReader
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithPostingCategoryReader sets the category reader used for sign normalization.
func WithPostingCategoryReader(repo portsrepo.CategoryReader) PostingServiceOption {
	return func(s *postingService) {
		s.categoryRepo = repo
	}
}

// WithPostingPropertyReader sets the property reader used for existence checks.
func WithPostingPropertyReader(repo portsrepo.PropertyReader) PostingServiceOption {
	return func(s *postingService) {
		s.propertyRepo = repo
	}
}

// NewPostingService creates a new posting service with the provided options.
func NewPostingService(recurringRepo portsrepo.RecurringRepositoryFacade, options ...PostingServiceOption) portssvc.PostingSvc {
	svc := &postingService{recurringRepo: recurringRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure postingService implements the PostingSvc interface
var _ portssvc.PostingSvc = (*postingService)(nil)

func (s *postingService) PostUpToMonth(ctx context.Context, propertyID string, targetMonth *domain.Month, userID string) (*domain.PostingSummary, error) {
	if s.propertyRepo != nil {
		if _, err := s.propertyRepo.FindPropertyByID(ctx, propertyID); err != nil {
			return nil, err
		}
	}

	target := domain.MonthOf(time.Now().UTC())
	if targetMonth != nil {
		target = *targetMonth
	}

	rules, err := s.recurringRepo.ListRecurringByProperty(ctx, propertyID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring rules: %w", err)
	}

	// Repositories already order by day_of_month then creation time, but the
	// summary must be deterministic regardless of the store, so re-sort.
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].DayOfMonth != rules[j].DayOfMonth {
			return rules[i].DayOfMonth < rules[j].DayOfMonth
		}
		return rules[i].CreatedAt.Before(rules[j].CreatedAt)
	})

	summary := &domain.PostingSummary{MonthsProcessed: []domain.Month{}}
	monthsSeen := make(map[domain.Month]struct{})
	categoryTypes := make(map[string]domain.CategoryType)

	for _, rule := range rules {
		if err := s.postRule(ctx, rule, target, userID, summary, monthsSeen, categoryTypes); err != nil {
			return nil, err
		}
	}

	sort.Slice(summary.MonthsProcessed, func(i, j int) bool {
		return summary.MonthsProcessed[i].Before(summary.MonthsProcessed[j])
	})

	s.LogInfo(ctx, "Recurring posting run complete",
		slog.String("property_id", propertyID),
		slog.String("target_month", target.String()),
		slog.Int("posted", summary.PostedCount),
		slog.Int("skipped", summary.SkippedCount))
	return summary, nil
}

// postRule walks one rule's pending months in calendar order and posts each
// missing (rule, month) pair.
func (s *postingService) postRule(
	ctx context.Context,
	rule domain.RecurringTransaction,
	target domain.Month,
	userID string,
	summary *domain.PostingSummary,
	monthsSeen map[domain.Month]struct{},
	categoryTypes map[string]domain.CategoryType,
) error {
	posted, err := s.recurringRepo.ListPostedMonths(ctx, rule.RecurringID)
	if err != nil {
		return fmt.Errorf("failed to list posted months for rule %s: %w", rule.RecurringID, err)
	}

	// The rule resumes after its newest posted month. Earlier gaps stay
	// untouched; they only arise when a start month is edited backward after
	// posting began, and re-filling them retroactively is not wanted. Every
	// candidate below is therefore unposted as of this snapshot, and a
	// concurrent run landing first surfaces as ErrAlreadyPosted on the write.
	lower := rule.StartMonth
	for m := range posted {
		if !m.Before(lower) {
			lower = m.Next()
		}
	}

	upper := target
	if rule.EndMonth != nil {
		upper = domain.MinMonth(upper, *rule.EndMonth)
	}
	if upper.Before(lower) {
		return nil
	}

	categoryType, ok := categoryTypes[rule.CategoryID]
	if !ok {
		category, err := s.categoryRepo.FindCategoryByID(ctx, rule.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to resolve category for rule %s: %w", rule.RecurringID, err)
		}
		categoryType = category.Type
		categoryTypes[rule.CategoryID] = categoryType
	}

	now := time.Now().UTC()
	for m := lower; !m.After(upper); m = m.Next() {
		if _, seen := monthsSeen[m]; !seen {
			monthsSeen[m] = struct{}{}
			summary.MonthsProcessed = append(summary.MonthsProcessed, m)
		}

		// Day is pre-clamped to 28 at data entry; DateOnDay re-clamps so a
		// bad stored value can never yield an invalid calendar date.
		txn := domain.Transaction{
			TransactionID:  uuid.NewString(),
			PropertyID:     rule.PropertyID,
			CategoryID:     rule.CategoryID,
			Date:           m.DateOnDay(rule.DayOfMonth),
			Amount:         domain.NormalizeAmount(rule.Amount, categoryType),
			Payee:          rule.Payee,
			Memo:           rule.Memo,
			StatementMonth: m.String(),
			Source:         domain.SourceRecurring,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		posting := domain.RecurringPosting{
			RecurringID:   rule.RecurringID,
			Month:         m,
			TransactionID: txn.TransactionID,
		}

		err := s.recurringRepo.CreatePostingWithTransaction(ctx, posting, txn)
		switch {
		case err == nil:
			summary.PostedCount++
		case errors.Is(err, apperrors.ErrAlreadyPosted):
			// Lost a race to a concurrent caller. The marker exists, the
			// month is covered, nothing more to do.
			summary.SkippedCount++
		default:
			s.LogError(ctx, err, "Failed to post recurring month",
				slog.String("recurring_id", rule.RecurringID),
				slog.String("month", m.String()))
			return fmt.Errorf("failed to post %s for rule %s: %w", m, rule.RecurringID, err)
		}
	}
	return nil
}
