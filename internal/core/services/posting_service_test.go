package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRecurringRepository is a mock type for the RecurringRepositoryFacade interface
type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringTransaction, error) {
	args := m.Called(ctx, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringRepository) ListRecurringByProperty(ctx context.Context, propertyID string, activeOnly bool) ([]domain.RecurringTransaction, error) {
	args := m.Called(ctx, propertyID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTransaction), args.Error(1)
}

func (m *MockRecurringRepository) ListPostedMonths(ctx context.Context, recurringID string) (map[domain.Month]bool, error) {
	args := m.Called(ctx, recurringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Month]bool), args.Error(1)
}

func (m *MockRecurringRepository) SaveRecurring(ctx context.Context, rule domain.RecurringTransaction) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRecurringRepository) UpdateRecurring(ctx context.Context, rule domain.RecurringTransaction) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error {
	args := m.Called(ctx, recurringID, userID, now)
	return args.Error(0)
}

func (m *MockRecurringRepository) CreatePostingWithTransaction(ctx context.Context, posting domain.RecurringPosting, txn domain.Transaction) error {
	args := m.Called(ctx, posting, txn)
	return args.Error(0)
}

// MockPropertyRepository is a mock type for the PropertyReader interface
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyRepository) ListProperties(ctx context.Context, includeInactive bool) ([]domain.Property, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

// --- Test Suite Setup ---

type PostingServiceTestSuite struct {
	suite.Suite
	mockRecurring  *MockRecurringRepository
	mockCategories *MockCategoryRepository
	mockProperties *MockPropertyRepository
	service        portssvc.PostingSvc

	propertyID string
	categoryID string
	userID     string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockRecurring = new(MockRecurringRepository)
	suite.mockCategories = new(MockCategoryRepository)
	suite.mockProperties = new(MockPropertyRepository)
	suite.service = services.NewPostingService(suite.mockRecurring,
		services.WithPostingCategoryReader(suite.mockCategories),
		services.WithPostingPropertyReader(suite.mockProperties),
	)
	suite.propertyID = uuid.NewString()
	suite.categoryID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *PostingServiceTestSuite) expectProperty() {
	suite.mockProperties.On("FindPropertyByID", mock.Anything, suite.propertyID).
		Return(&domain.Property{PropertyID: suite.propertyID}, nil).Once()
}

func (suite *PostingServiceTestSuite) expectExpenseCategory() {
	suite.mockCategories.On("FindCategoryByID", mock.Anything, suite.categoryID).
		Return(&domain.Category{CategoryID: suite.categoryID, Name: "Mortgage", Type: domain.CategoryTypeExpense}, nil).Once()
}

func (suite *PostingServiceTestSuite) newRule(start domain.Month, end *domain.Month) domain.RecurringTransaction {
	return domain.RecurringTransaction{
		RecurringID: uuid.NewString(),
		PropertyID:  suite.propertyID,
		CategoryID:  suite.categoryID,
		Amount:      decimal.RequireFromString("1450.00"),
		Payee:       "First National",
		Memo:        "Mortgage payment",
		DayOfMonth:  5,
		StartMonth:  start,
		EndMonth:    end,
		IsActive:    true,
	}
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPostUpToMonth_BackfillsMissingMonths() {
	ctx := context.Background()
	rule := suite.newRule(domain.Month{Year: 2024, Mon: time.January}, nil)
	target := domain.Month{Year: 2024, Mon: time.June}

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()

	var posted []domain.Transaction
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			posted = append(posted, args.Get(2).(domain.Transaction))
		}).
		Return(nil).Times(6)

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(6, summary.PostedCount)
	suite.Equal(0, summary.SkippedCount)
	suite.Require().Len(summary.MonthsProcessed, 6)
	suite.Equal("2024-01", summary.MonthsProcessed[0].String())
	suite.Equal("2024-06", summary.MonthsProcessed[5].String())

	suite.Require().Len(posted, 6)
	first := posted[0]
	suite.Equal(suite.propertyID, first.PropertyID)
	suite.Equal(suite.categoryID, first.CategoryID)
	suite.Equal(time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), first.Date)
	// Expense rules post negative regardless of the sign the rule stores.
	suite.True(first.Amount.Equal(decimal.RequireFromString("-1450.00")))
	suite.Equal("2024-01", first.StatementMonth)
	suite.Equal(domain.SourceRecurring, first.Source)
	suite.Equal(suite.userID, first.CreatedBy)
	suite.mockRecurring.AssertExpectations(suite.T())
	suite.mockCategories.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_ResumesAfterPostedMonths() {
	ctx := context.Background()
	rule := suite.newRule(domain.Month{Year: 2024, Mon: time.January}, nil)
	target := domain.Month{Year: 2024, Mon: time.April}

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{
			{Year: 2024, Mon: time.January}:  true,
			{Year: 2024, Mon: time.February}: true,
		}, nil).Once()
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Return(nil).Times(2)

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, summary.PostedCount)
	suite.Equal(0, summary.SkippedCount)
	suite.Require().Len(summary.MonthsProcessed, 2)
	suite.Equal("2024-03", summary.MonthsProcessed[0].String())
	suite.Equal("2024-04", summary.MonthsProcessed[1].String())
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_GapBeforeLastPostedStaysUntouched() {
	ctx := context.Background()
	rule := suite.newRule(domain.Month{Year: 2024, Mon: time.January}, nil)
	target := domain.Month{Year: 2024, Mon: time.April}

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	// February is missing below the newest posted month; the rule resumes
	// after March rather than re-filling it.
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{
			{Year: 2024, Mon: time.January}: true,
			{Year: 2024, Mon: time.March}:   true,
		}, nil).Once()

	var posting domain.RecurringPosting
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			posting = args.Get(1).(domain.RecurringPosting)
		}).
		Return(nil).Once()

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.PostedCount)
	suite.Equal(0, summary.SkippedCount)
	suite.Require().Len(summary.MonthsProcessed, 1)
	suite.Equal("2024-04", summary.MonthsProcessed[0].String())
	suite.Equal("2024-04", posting.Month.String())
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_LostRaceCountsSkip() {
	ctx := context.Background()
	month := domain.Month{Year: 2024, Mon: time.May}
	rule := suite.newRule(month, nil)

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()
	// A concurrent caller inserted the marker first.
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Return(apperrors.ErrAlreadyPosted).Once()

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &month, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, summary.PostedCount)
	suite.Equal(1, summary.SkippedCount)
	suite.Require().Len(summary.MonthsProcessed, 1)
	suite.Equal(month, summary.MonthsProcessed[0])
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_EndMonthCapsRange() {
	ctx := context.Background()
	end := domain.Month{Year: 2024, Mon: time.March}
	rule := suite.newRule(domain.Month{Year: 2024, Mon: time.January}, &end)
	target := domain.Month{Year: 2024, Mon: time.December}

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Return(nil).Times(3)

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, summary.PostedCount)
	suite.Require().Len(summary.MonthsProcessed, 3)
	suite.Equal("2024-03", summary.MonthsProcessed[2].String())
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_StartAfterTargetPostsNothing() {
	ctx := context.Background()
	rule := suite.newRule(domain.Month{Year: 2025, Mon: time.January}, nil)
	target := domain.Month{Year: 2024, Mon: time.June}

	suite.expectProperty()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, summary.PostedCount)
	suite.Equal(0, summary.SkippedCount)
	suite.Empty(summary.MonthsProcessed)
	// No pending months means the category is never resolved.
	suite.mockCategories.AssertNotCalled(suite.T(), "FindCategoryByID", mock.Anything, mock.Anything)
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_DefaultsTargetToCurrentMonth() {
	ctx := context.Background()
	current := domain.MonthOf(time.Now().UTC())
	rule := suite.newRule(current, nil)

	suite.expectProperty()
	suite.expectExpenseCategory()
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{rule}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, rule.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Return(nil).Once()

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, nil, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, summary.PostedCount)
	suite.Require().Len(summary.MonthsProcessed, 1)
	suite.Equal(current, summary.MonthsProcessed[0])
	suite.mockRecurring.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_SharedMonthsReportedOnce() {
	ctx := context.Background()
	start := domain.Month{Year: 2024, Mon: time.January}
	target := domain.Month{Year: 2024, Mon: time.February}
	ruleA := suite.newRule(start, nil)
	ruleB := suite.newRule(start, nil)
	ruleB.DayOfMonth = 15

	suite.expectProperty()
	suite.expectExpenseCategory() // Once: the type is cached across rules
	suite.mockRecurring.On("ListRecurringByProperty", ctx, suite.propertyID, true).
		Return([]domain.RecurringTransaction{ruleA, ruleB}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, ruleA.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()
	suite.mockRecurring.On("ListPostedMonths", ctx, ruleB.RecurringID).
		Return(map[domain.Month]bool{}, nil).Once()
	suite.mockRecurring.On("CreatePostingWithTransaction", ctx,
		mock.AnythingOfType("domain.RecurringPosting"), mock.AnythingOfType("domain.Transaction")).
		Return(nil).Times(4)

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(4, summary.PostedCount)
	suite.Require().Len(summary.MonthsProcessed, 2)
	suite.Equal("2024-01", summary.MonthsProcessed[0].String())
	suite.Equal("2024-02", summary.MonthsProcessed[1].String())
	suite.mockRecurring.AssertExpectations(suite.T())
	suite.mockCategories.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostUpToMonth_UnknownProperty() {
	ctx := context.Background()
	target := domain.Month{Year: 2024, Mon: time.June}

	suite.mockProperties.On("FindPropertyByID", mock.Anything, suite.propertyID).
		Return(nil, apperrors.ErrNotFound).Once()

	summary, err := suite.service.PostUpToMonth(ctx, suite.propertyID, &target, suite.userID)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecurring.AssertNotCalled(suite.T(), "ListRecurringByProperty", mock.Anything, mock.Anything, mock.Anything)
	suite.mockProperties.AssertExpectations(suite.T())
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
