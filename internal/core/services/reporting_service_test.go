package services_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/rentledger/rentledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListLedgerEntries(ctx context.Context, filter portsrepo.LedgerFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockReportingRepository) ListAnnualLedgerEntries(ctx context.Context, year int, propertyID string, categoryID string) ([]domain.AnnualLedgerEntry, error) {
	args := m.Called(ctx, year, propertyID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnnualLedgerEntry), args.Error(1)
}

// MockLoanSnapshotRepository is a mock type for the LoanSnapshotReader interface
type MockLoanSnapshotRepository struct {
	mock.Mock
}

func (m *MockLoanSnapshotRepository) ListLoanSnapshots(ctx context.Context, propertyID string) ([]domain.LoanSnapshot, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanSnapshot), args.Error(1)
}

func (m *MockLoanSnapshotRepository) FindLatestBalanceAtOrBefore(ctx context.Context, propertyID string, asOf time.Time) (decimal.NullDecimal, error) {
	args := m.Called(ctx, propertyID, asOf)
	return args.Get(0).(decimal.NullDecimal), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReporting  *MockReportingRepository
	mockProperties *MockPropertyRepository
	mockCategories *MockCategoryRepository
	mockLoans      *MockLoanSnapshotRepository
	service        portssvc.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReporting = new(MockReportingRepository)
	suite.mockProperties = new(MockPropertyRepository)
	suite.mockCategories = new(MockCategoryRepository)
	suite.mockLoans = new(MockLoanSnapshotRepository)
	suite.service = services.NewReportingService(suite.mockReporting,
		services.WithReportingPropertyReader(suite.mockProperties),
		services.WithReportingCategoryReader(suite.mockCategories),
		services.WithReportingLoanReader(suite.mockLoans),
	)
}

func entry(propertyID, label string, categoryType domain.CategoryType, date time.Time, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		TransactionID: uuid.NewString(),
		PropertyID:    propertyID,
		PropertyLabel: label,
		CategoryID:    uuid.NewString(),
		CategoryType:  categoryType,
		Date:          date,
		Amount:        decimal.RequireFromString(amount),
	}
}

// --- Profit and loss ---

func (suite *ReportingServiceTestSuite) TestProfitLossByProperty_GroupsAndOrdersByLabel() {
	ctx := context.Background()
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	maple := uuid.NewString()
	birch := uuid.NewString()
	entries := []domain.LedgerEntry{
		entry(maple, "Maple St", domain.CategoryTypeIncome, mid, "2000.00"),
		entry(maple, "Maple St", domain.CategoryTypeExpense, mid, "-450.25"),
		entry(birch, "Birch Ave", domain.CategoryTypeIncome, mid, "1500.00"),
		// Transfers never count toward profit or loss.
		entry(maple, "Maple St", domain.CategoryTypeTransfer, mid, "99999.00"),
	}
	suite.mockReporting.On("ListLedgerEntries", ctx, portsrepo.LedgerFilter{From: &from, To: &to}).
		Return(entries, nil).Once()

	report, err := suite.service.ProfitLossByProperty(ctx, from, to, "")

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	suite.Equal("Birch Ave", report.Rows[0].PropertyLabel)
	suite.Equal("Maple St", report.Rows[1].PropertyLabel)
	suite.True(report.Rows[1].IncomeTotal.Equal(decimal.RequireFromString("2000.00")))
	suite.True(report.Rows[1].ExpenseTotal.Equal(decimal.RequireFromString("-450.25")))
	suite.True(report.Rows[1].NetTotal.Equal(decimal.RequireFromString("1549.75")))
	suite.True(report.IncomeTotal.Equal(decimal.RequireFromString("3500.00")))
	suite.True(report.ExpenseTotal.Equal(decimal.RequireFromString("-450.25")))
	suite.True(report.NetTotal.Equal(decimal.RequireFromString("3049.75")))
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestProfitLossByProperty_ExactDecimalAccumulation() {
	ctx := context.Background()
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	propertyID := uuid.NewString()

	// Ten thousand cents must sum to exactly one hundred dollars, with no
	// binary float drift.
	entries := make([]domain.LedgerEntry, 0, 10000)
	for i := 0; i < 10000; i++ {
		entries = append(entries, entry(propertyID, "Unit "+strconv.Itoa(i%3), domain.CategoryTypeIncome, from, "0.01"))
	}
	suite.mockReporting.On("ListLedgerEntries", ctx, mock.AnythingOfType("repositories.LedgerFilter")).
		Return(entries, nil).Once()

	report, err := suite.service.ProfitLossByProperty(ctx, from, to, propertyID)

	suite.Require().NoError(err)
	suite.Equal("100", report.IncomeTotal.String())
	suite.Equal("100", report.NetTotal.String())
}

// --- Net profit ---

func (suite *ReportingServiceTestSuite) TestNetProfitByProperty_RejectsUnknownLookback() {
	ctx := context.Background()

	report, err := suite.service.NetProfitByProperty(ctx, 2, time.Now().UTC())

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReporting.AssertNotCalled(suite.T(), "ListLedgerEntries", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestNetProfitByProperty_WindowAnchoredAtUTCMidnight() {
	ctx := context.Background()
	anchor := time.Date(2024, time.August, 15, 17, 42, 9, 0, time.UTC)
	day := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	var captured portsrepo.LedgerFilter
	suite.mockReporting.On("ListLedgerEntries", ctx, mock.AnythingOfType("repositories.LedgerFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(portsrepo.LedgerFilter)
		}).
		Return([]domain.LedgerEntry{}, nil).Once()

	report, err := suite.service.NetProfitByProperty(ctx, 5, anchor)

	suite.Require().NoError(err)
	suite.Equal(day, report.Anchor)
	suite.Require().NotNil(captured.From)
	suite.Require().NotNil(captured.To)
	suite.Equal(day.AddDate(-5, 0, 0), *captured.From)
	suite.Equal(day, *captured.To)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestNetProfitByProperty_ZeroLookbackCoversAllHistory() {
	ctx := context.Background()
	anchor := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)

	var captured portsrepo.LedgerFilter
	suite.mockReporting.On("ListLedgerEntries", ctx, mock.AnythingOfType("repositories.LedgerFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(portsrepo.LedgerFilter)
		}).
		Return([]domain.LedgerEntry{}, nil).Once()

	_, err := suite.service.NetProfitByProperty(ctx, 0, anchor)

	suite.Require().NoError(err)
	suite.Require().NotNil(captured.From)
	suite.Equal(time.Unix(0, 0).UTC(), *captured.From)
}

func (suite *ReportingServiceTestSuite) TestNetProfitByProperty_RanksByNetDescending() {
	ctx := context.Background()
	anchor := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	low := uuid.NewString()
	high := uuid.NewString()
	tied := uuid.NewString()
	entries := []domain.LedgerEntry{
		entry(low, "Cedar Ct", domain.CategoryTypeIncome, mid, "100.00"),
		entry(high, "Walnut Way", domain.CategoryTypeIncome, mid, "900.00"),
		entry(tied, "Aspen Rd", domain.CategoryTypeIncome, mid, "100.00"),
	}
	suite.mockReporting.On("ListLedgerEntries", ctx, mock.AnythingOfType("repositories.LedgerFilter")).
		Return(entries, nil).Once()

	report, err := suite.service.NetProfitByProperty(ctx, 1, anchor)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 3)
	suite.Equal("Walnut Way", report.Rows[0].PropertyLabel)
	// Equal nets fall back to label order.
	suite.Equal("Aspen Rd", report.Rows[1].PropertyLabel)
	suite.Equal("Cedar Ct", report.Rows[2].PropertyLabel)
	suite.True(report.NetTotal.Equal(decimal.RequireFromString("1100.00")))
}

// --- Return on equity ---

func (suite *ReportingServiceTestSuite) roeProperty(nickname string, zillow string) domain.Property {
	p := domain.Property{
		PropertyID:   uuid.NewString(),
		Nickname:     nickname,
		AddressLine1: "1 Main St",
		Status:       domain.PropertyActive,
	}
	if zillow != "" {
		p.ZillowValue = decimal.NullDecimal{Decimal: decimal.RequireFromString(zillow), Valid: true}
	}
	return p
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_ComputesEquityAndPct() {
	ctx := context.Background()
	property := suite.roeProperty("Maple St", "300000")
	mid := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	suite.mockProperties.On("FindPropertyByID", mock.Anything, property.PropertyID).
		Return(&property, nil).Once()
	suite.mockReporting.On("ListLedgerEntries", mock.Anything, mock.AnythingOfType("repositories.LedgerFilter")).
		Return([]domain.LedgerEntry{
			entry(property.PropertyID, "Maple St", domain.CategoryTypeIncome, mid, "18000.00"),
			entry(property.PropertyID, "Maple St", domain.CategoryTypeExpense, mid, "-7000.00"),
		}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", mock.Anything, 2024, property.PropertyID, "").
		Return([]domain.AnnualLedgerEntry{{
			PropertyID:    property.PropertyID,
			PropertyLabel: "Maple St",
			CategoryType:  domain.CategoryTypeExpense,
			Year:          2024,
			Amount:        decimal.RequireFromString("1000.00"),
		}}, nil).Once()
	suite.mockLoans.On("FindLatestBalanceAtOrBefore", mock.Anything, property.PropertyID,
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)).
		Return(decimal.NullDecimal{Decimal: decimal.RequireFromString("180000"), Valid: true}, nil).Once()

	report, err := suite.service.ReturnOnEquity(ctx, 2024, domain.ValuationZillow, property.PropertyID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	row := report.Rows[0]
	suite.True(row.NetCashFlow.Equal(decimal.RequireFromString("12000.00")))
	suite.Require().True(row.Equity.Valid)
	suite.True(row.Equity.Decimal.Equal(decimal.RequireFromString("120000")))
	suite.Require().True(row.RoePct.Valid)
	suite.True(row.RoePct.Decimal.Equal(decimal.RequireFromString("10")))
	suite.mockLoans.AssertExpectations(suite.T())
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_MissingValuationYieldsNullPct() {
	ctx := context.Background()
	property := suite.roeProperty("Maple St", "")

	suite.mockProperties.On("FindPropertyByID", mock.Anything, property.PropertyID).
		Return(&property, nil).Once()
	suite.mockReporting.On("ListLedgerEntries", mock.Anything, mock.AnythingOfType("repositories.LedgerFilter")).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", mock.Anything, 2024, property.PropertyID, "").
		Return([]domain.AnnualLedgerEntry{}, nil).Once()
	suite.mockLoans.On("FindLatestBalanceAtOrBefore", mock.Anything, property.PropertyID, mock.AnythingOfType("time.Time")).
		Return(decimal.NullDecimal{Decimal: decimal.RequireFromString("180000"), Valid: true}, nil).Once()

	report, err := suite.service.ReturnOnEquity(ctx, 2024, domain.ValuationZillow, property.PropertyID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.False(report.Rows[0].Valuation.Valid)
	suite.False(report.Rows[0].Equity.Valid)
	suite.False(report.Rows[0].RoePct.Valid)
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_NoSnapshotMeansNoDebt() {
	ctx := context.Background()
	property := suite.roeProperty("Maple St", "250000")

	suite.mockProperties.On("FindPropertyByID", mock.Anything, property.PropertyID).
		Return(&property, nil).Once()
	suite.mockReporting.On("ListLedgerEntries", mock.Anything, mock.AnythingOfType("repositories.LedgerFilter")).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", mock.Anything, 2024, property.PropertyID, "").
		Return([]domain.AnnualLedgerEntry{}, nil).Once()
	suite.mockLoans.On("FindLatestBalanceAtOrBefore", mock.Anything, property.PropertyID, mock.AnythingOfType("time.Time")).
		Return(decimal.NullDecimal{}, nil).Once()

	report, err := suite.service.ReturnOnEquity(ctx, 2024, domain.ValuationZillow, property.PropertyID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	row := report.Rows[0]
	suite.False(row.LoanBalance.Valid)
	suite.Require().True(row.Equity.Valid)
	suite.True(row.Equity.Decimal.Equal(decimal.RequireFromString("250000")))
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_ZeroEquityYieldsNullPct() {
	ctx := context.Background()
	property := suite.roeProperty("Maple St", "200000")
	mid := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	suite.mockProperties.On("FindPropertyByID", mock.Anything, property.PropertyID).
		Return(&property, nil).Once()
	suite.mockReporting.On("ListLedgerEntries", mock.Anything, mock.AnythingOfType("repositories.LedgerFilter")).
		Return([]domain.LedgerEntry{
			entry(property.PropertyID, "Maple St", domain.CategoryTypeIncome, mid, "5000.00"),
		}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", mock.Anything, 2024, property.PropertyID, "").
		Return([]domain.AnnualLedgerEntry{}, nil).Once()
	suite.mockLoans.On("FindLatestBalanceAtOrBefore", mock.Anything, property.PropertyID, mock.AnythingOfType("time.Time")).
		Return(decimal.NullDecimal{Decimal: decimal.RequireFromString("200000"), Valid: true}, nil).Once()

	report, err := suite.service.ReturnOnEquity(ctx, 2024, domain.ValuationZillow, property.PropertyID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 1)
	suite.Require().True(report.Rows[0].Equity.Valid)
	suite.True(report.Rows[0].Equity.Decimal.IsZero())
	suite.False(report.Rows[0].RoePct.Valid)
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_UnknownSource() {
	report, err := suite.service.ReturnOnEquity(context.Background(), 2024, domain.ValuationSource("GUESS"), "")

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestReturnOnEquity_StalePropertyDegradesToEmptyReport() {
	ctx := context.Background()
	staleID := uuid.NewString()

	suite.mockProperties.On("FindPropertyByID", mock.Anything, staleID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockReporting.On("ListLedgerEntries", mock.Anything, mock.AnythingOfType("repositories.LedgerFilter")).
		Return([]domain.LedgerEntry{}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", mock.Anything, 2024, staleID, "").
		Return([]domain.AnnualLedgerEntry{}, nil).Once()

	report, err := suite.service.ReturnOnEquity(ctx, 2024, domain.ValuationZillow, staleID)

	suite.Require().NoError(err)
	suite.Empty(report.Rows)
	suite.Equal(2024, report.Year)
}

// --- Category trends ---

func (suite *ReportingServiceTestSuite) TestExpenseTrendByYear_FlipsDisplaySign() {
	ctx := context.Background()
	categoryID := uuid.NewString()
	category := &domain.Category{CategoryID: categoryID, Name: "Repairs", Type: domain.CategoryTypeExpense}

	suite.mockCategories.On("FindCategoryByID", ctx, categoryID).Return(category, nil).Once()
	suite.mockReporting.On("ListLedgerEntries", ctx, mock.MatchedBy(func(f portsrepo.LedgerFilter) bool {
		return f.CategoryID == categoryID && f.IncludeTransfers
	})).Return([]domain.LedgerEntry{
		entry("p1", "Maple St", domain.CategoryTypeExpense, time.Date(2023, time.April, 2, 0, 0, 0, 0, time.UTC), "-500.00"),
		entry("p2", "Birch Ave", domain.CategoryTypeExpense, time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC), "-750.00"),
	}, nil).Once()
	suite.mockReporting.On("ListAnnualLedgerEntries", ctx, 0, "", categoryID).
		Return([]domain.AnnualLedgerEntry{{
			PropertyID:    "p1",
			PropertyLabel: "Maple St",
			CategoryID:    categoryID,
			CategoryType:  domain.CategoryTypeExpense,
			Year:          2022,
			Amount:        decimal.RequireFromString("-100.00"),
		}}, nil).Once()

	report, err := suite.service.ExpenseTrendByYear(ctx, categoryID, "")

	suite.Require().NoError(err)
	suite.Equal("Repairs", report.CategoryName)
	suite.Equal([]int{2022, 2023, 2024}, report.Years)
	suite.Require().Len(report.Points, 3)
	suite.True(report.Points[0].Raw.Equal(decimal.RequireFromString("-100.00")))
	suite.True(report.Points[0].Display.Equal(decimal.RequireFromString("100.00")))
	suite.True(report.Points[2].Display.Equal(decimal.RequireFromString("750.00")))
	suite.Equal([]string{"Birch Ave", "Maple St"}, report.PropertyLabels)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestIncomeTrendByYear_RequiresCategory() {
	report, err := suite.service.IncomeTrendByYear(context.Background(), "", "")

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportingServiceTestSuite) TestIncomeTrendByYear_StaleCategoryDegradesToEmptyReport() {
	ctx := context.Background()
	staleID := uuid.NewString()

	suite.mockCategories.On("FindCategoryByID", ctx, staleID).
		Return(nil, apperrors.ErrNotFound).Once()

	report, err := suite.service.IncomeTrendByYear(ctx, staleID, "")

	suite.Require().NoError(err)
	suite.Equal(staleID, report.CategoryID)
	suite.Empty(report.Points)
	suite.Empty(report.Years)
	suite.mockReporting.AssertNotCalled(suite.T(), "ListLedgerEntries", mock.Anything, mock.Anything)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
