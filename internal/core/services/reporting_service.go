package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
	portssvc "github.com/rentledger/rentledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// lookbackWindows are the supported net-profit lookback choices, in years.
// Zero means all history.
var lookbackWindows = map[int]bool{0: true, 1: true, 3: true, 5: true, 10: true, 15: true}

// reportingService is the read-only financial aggregator. It never mutates
// ledger state, sums money with exact decimal accumulation, and orders every
// row set with explicit sort keys so identical data yields identical output.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	propertyRepo  portsrepo.PropertyReader
	categoryRepo  portsrepo.CategoryReader
	loanRepo      portsrepo.LoanSnapshotReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingPropertyReader sets the property reader used for labels and valuations.
func WithReportingPropertyReader(repo portsrepo.PropertyReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.propertyRepo = repo
	}
}

// WithReportingCategoryReader sets the category reader used by trend reports.
func WithReportingCategoryReader(repo portsrepo.CategoryReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.categoryRepo = repo
	}
}

// WithReportingLoanReader sets the loan snapshot reader used by the ROE report.
func WithReportingLoanReader(repo portsrepo.LoanSnapshotReader) ReportingServiceOption {
	return func(s *reportingService) {
		s.loanRepo = repo
	}
}

// NewReportingService creates a new reporting service with the provided options.
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{reportingRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) ProfitLossByProperty(ctx context.Context, from, to time.Time, propertyID string) (*domain.ProfitLossReport, error) {
	entries, err := s.reportingRepo.ListLedgerEntries(ctx, portsrepo.LedgerFilter{
		From:       &from,
		To:         &to,
		PropertyID: propertyID,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve profit and loss data")
		return nil, fmt.Errorf("failed to retrieve profit and loss data: %w", err)
	}

	rows := groupByProperty(entries)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PropertyLabel != rows[j].PropertyLabel {
			return rows[i].PropertyLabel < rows[j].PropertyLabel
		}
		return rows[i].PropertyID < rows[j].PropertyID
	})

	report := &domain.ProfitLossReport{
		From:         from,
		To:           to,
		Rows:         rows,
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		NetTotal:     decimal.Zero,
	}
	for _, row := range rows {
		report.IncomeTotal = report.IncomeTotal.Add(row.IncomeTotal)
		report.ExpenseTotal = report.ExpenseTotal.Add(row.ExpenseTotal)
		report.NetTotal = report.NetTotal.Add(row.NetTotal)
	}

	s.LogInfo(ctx, "Profit and loss report generated", slog.Int("row_count", len(rows)))
	return report, nil
}

func (s *reportingService) NetProfitByProperty(ctx context.Context, lookbackYears int, anchor time.Time) (*domain.NetProfitReport, error) {
	return s.netProfit(ctx, "", lookbackYears, anchor)
}

func (s *reportingService) NetProfitForProperty(ctx context.Context, propertyID string, lookbackYears int, anchor time.Time) (*domain.NetProfitReport, error) {
	return s.netProfit(ctx, propertyID, lookbackYears, anchor)
}

func (s *reportingService) netProfit(ctx context.Context, propertyID string, lookbackYears int, anchor time.Time) (*domain.NetProfitReport, error) {
	if !lookbackWindows[lookbackYears] {
		return nil, fmt.Errorf("unsupported lookback window %d: %w", lookbackYears, apperrors.ErrValidation)
	}

	// Anchor "today" at UTC midnight so the window does not shift within a
	// day and reports stay reproducible for a fixed anchor.
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	from := time.Unix(0, 0).UTC()
	if lookbackYears > 0 {
		from = day.AddDate(-lookbackYears, 0, 0)
	}

	entries, err := s.reportingRepo.ListLedgerEntries(ctx, portsrepo.LedgerFilter{
		From:       &from,
		To:         &day,
		PropertyID: propertyID,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve net profit data")
		return nil, fmt.Errorf("failed to retrieve net profit data: %w", err)
	}

	grouped := groupByProperty(entries)
	rows := make([]domain.NetProfitRow, len(grouped))
	for i, g := range grouped {
		rows[i] = domain.NetProfitRow{
			PropertyID:    g.PropertyID,
			PropertyLabel: g.PropertyLabel,
			IncomeTotal:   g.IncomeTotal,
			ExpenseTotal:  g.ExpenseTotal,
			NetTotal:      g.NetTotal,
		}
	}
	// Rank by net profit; equal totals fall back to plain lexical label
	// order so the ranking is total.
	sort.Slice(rows, func(i, j int) bool {
		cmp := rows[i].NetTotal.Cmp(rows[j].NetTotal)
		if cmp != 0 {
			return cmp > 0
		}
		if rows[i].PropertyLabel != rows[j].PropertyLabel {
			return rows[i].PropertyLabel < rows[j].PropertyLabel
		}
		return rows[i].PropertyID < rows[j].PropertyID
	})

	report := &domain.NetProfitReport{
		Anchor:        day,
		LookbackYears: lookbackYears,
		From:          from,
		Rows:          rows,
		NetTotal:      decimal.Zero,
	}
	for _, row := range rows {
		report.NetTotal = report.NetTotal.Add(row.NetTotal)
	}
	return report, nil
}

func (s *reportingService) ReturnOnEquity(ctx context.Context, year int, source domain.ValuationSource, propertyID string) (*domain.ReturnOnEquityReport, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("unknown valuation source %q: %w", source, apperrors.ErrValidation)
	}

	properties, err := s.roeProperties(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	// The three reads are independent; fan them out.
	var (
		entries  []domain.LedgerEntry
		annuals  []domain.AnnualLedgerEntry
		balances = make([]decimal.NullDecimal, len(properties))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.reportingRepo.ListLedgerEntries(gctx, portsrepo.LedgerFilter{
			From:       &yearStart,
			To:         &yearEnd,
			PropertyID: propertyID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		annuals, err = s.reportingRepo.ListAnnualLedgerEntries(gctx, year, propertyID, "")
		return err
	})
	for i, p := range properties {
		g.Go(func() error {
			balance, err := s.loanRepo.FindLatestBalanceAtOrBefore(gctx, p.PropertyID, yearEnd)
			if err != nil {
				return err
			}
			balances[i] = balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to retrieve return on equity data", slog.Int("year", year))
		return nil, fmt.Errorf("failed to retrieve return on equity data: %w", err)
	}

	cashFlow := make(map[string]decimal.Decimal, len(properties))
	for _, e := range entries {
		if e.CategoryType == domain.CategoryTypeTransfer {
			continue
		}
		cashFlow[e.PropertyID] = cashFlowFor(cashFlow, e.PropertyID).Add(e.Amount)
	}
	for _, a := range annuals {
		if a.CategoryType == domain.CategoryTypeTransfer {
			continue
		}
		cashFlow[a.PropertyID] = cashFlowFor(cashFlow, a.PropertyID).Add(a.Amount)
	}

	rows := make([]domain.ReturnOnEquityRow, 0, len(properties))
	for i, p := range properties {
		row := domain.ReturnOnEquityRow{
			PropertyID:    p.PropertyID,
			PropertyLabel: p.Label(),
			Valuation:     p.ValuationFor(source),
			LoanBalance:   balances[i],
			NetCashFlow:   cashFlowFor(cashFlow, p.PropertyID),
		}
		if row.Valuation.Valid {
			// No snapshot at or before year end means no recorded debt.
			balance := decimal.Zero
			if row.LoanBalance.Valid {
				balance = row.LoanBalance.Decimal
			}
			equity := row.Valuation.Decimal.Sub(balance)
			row.Equity = decimal.NullDecimal{Decimal: equity, Valid: true}
			// Never divide by zero and never synthesize a figure.
			if !equity.IsZero() {
				pct := row.NetCashFlow.Div(equity).Mul(decimal.NewFromInt(100))
				row.RoePct = decimal.NullDecimal{Decimal: pct, Valid: true}
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PropertyLabel != rows[j].PropertyLabel {
			return rows[i].PropertyLabel < rows[j].PropertyLabel
		}
		return rows[i].PropertyID < rows[j].PropertyID
	})

	return &domain.ReturnOnEquityReport{Year: year, Source: source, Rows: rows}, nil
}

// roeProperties resolves the property set for the ROE report. A stale id
// degrades to an empty report so a dashboard of many reports survives it.
func (s *reportingService) roeProperties(ctx context.Context, propertyID string) ([]domain.Property, error) {
	if propertyID == "" {
		properties, err := s.propertyRepo.ListProperties(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list properties: %w", err)
		}
		return properties, nil
	}
	property, err := s.propertyRepo.FindPropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []domain.Property{*property}, nil
}

func (s *reportingService) IncomeTrendByYear(ctx context.Context, categoryID string, propertyID string) (*domain.CategoryTrendReport, error) {
	return s.trendByYear(ctx, categoryID, propertyID)
}

func (s *reportingService) ExpenseTrendByYear(ctx context.Context, categoryID string, propertyID string) (*domain.CategoryTrendReport, error) {
	return s.trendByYear(ctx, categoryID, propertyID)
}

func (s *reportingService) trendByYear(ctx context.Context, categoryID string, propertyID string) (*domain.CategoryTrendReport, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("categoryID is required for trend reports: %w", apperrors.ErrValidation)
	}

	report := &domain.CategoryTrendReport{
		CategoryID:     categoryID,
		Points:         []domain.TrendPoint{},
		Years:          []int{},
		PropertyLabels: []string{},
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Stale category reference: an empty report, not a failure.
			return report, nil
		}
		return nil, err
	}
	report.CategoryName = category.Name
	report.CategoryType = category.Type

	// The category is selected explicitly, so a transfer category is an
	// intentional opt-in.
	entries, err := s.reportingRepo.ListLedgerEntries(ctx, portsrepo.LedgerFilter{
		PropertyID:       propertyID,
		CategoryID:       categoryID,
		IncludeTransfers: true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trend data", slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to retrieve trend data: %w", err)
	}
	annuals, err := s.reportingRepo.ListAnnualLedgerEntries(ctx, 0, propertyID, categoryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve annual trend data", slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to retrieve annual trend data: %w", err)
	}

	totals := make(map[int]decimal.Decimal)
	labels := make(map[string]struct{})
	for _, e := range entries {
		year := e.Date.Year()
		totals[year] = cashFlowForYear(totals, year).Add(e.Amount)
		labels[e.PropertyLabel] = struct{}{}
	}
	for _, a := range annuals {
		totals[a.Year] = cashFlowForYear(totals, a.Year).Add(a.Amount)
		labels[a.PropertyLabel] = struct{}{}
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		raw := totals[year]
		report.Points = append(report.Points, domain.TrendPoint{
			Year: year,
			Raw:  raw,
			// Expense magnitudes flip positive for charting; income is
			// already non-negative, so Abs covers both.
			Display: raw.Abs(),
		})
	}
	report.Years = years

	for label := range labels {
		report.PropertyLabels = append(report.PropertyLabels, label)
	}
	sort.Strings(report.PropertyLabels)

	return report, nil
}

// groupByProperty folds ledger entries into per-property totals, transfers
// excluded. Sign convention makes NetTotal a plain sum.
func groupByProperty(entries []domain.LedgerEntry) []domain.ProfitLossRow {
	index := make(map[string]int)
	rows := make([]domain.ProfitLossRow, 0)
	for _, e := range entries {
		if e.CategoryType == domain.CategoryTypeTransfer {
			continue
		}
		i, ok := index[e.PropertyID]
		if !ok {
			i = len(rows)
			index[e.PropertyID] = i
			rows = append(rows, domain.ProfitLossRow{
				PropertyID:    e.PropertyID,
				PropertyLabel: e.PropertyLabel,
				IncomeTotal:   decimal.Zero,
				ExpenseTotal:  decimal.Zero,
				NetTotal:      decimal.Zero,
			})
		}
		switch e.CategoryType {
		case domain.CategoryTypeIncome:
			rows[i].IncomeTotal = rows[i].IncomeTotal.Add(e.Amount)
		case domain.CategoryTypeExpense:
			rows[i].ExpenseTotal = rows[i].ExpenseTotal.Add(e.Amount)
		}
		rows[i].NetTotal = rows[i].NetTotal.Add(e.Amount)
	}
	return rows
}

func cashFlowFor(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

func cashFlowForYear(m map[int]decimal.Decimal, year int) decimal.Decimal {
	if v, ok := m[year]; ok {
		return v
	}
	return decimal.Zero
}
