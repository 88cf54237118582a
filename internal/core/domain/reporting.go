package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitLossRow is one property's totals over a report period. Sign
// convention: income non-negative, expenses non-positive, so NetTotal is a
// plain sum.
type ProfitLossRow struct {
	PropertyID    string          `json:"propertyID"`
	PropertyLabel string          `json:"propertyLabel"`
	IncomeTotal   decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal  decimal.Decimal `json:"expenseTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`
}

// ProfitLossReport groups transaction totals by property over a date range.
type ProfitLossReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Rows         []ProfitLossRow `json:"rows"`
	IncomeTotal  decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal decimal.Decimal `json:"expenseTotal"`
	NetTotal     decimal.Decimal `json:"netTotal"`
}

// NetProfitRow is one property's net total over a lookback window.
type NetProfitRow struct {
	PropertyID    string          `json:"propertyID"`
	PropertyLabel string          `json:"propertyLabel"`
	IncomeTotal   decimal.Decimal `json:"incomeTotal"`
	ExpenseTotal  decimal.Decimal `json:"expenseTotal"`
	NetTotal      decimal.Decimal `json:"netTotal"`
}

// NetProfitReport ranks properties by net profit over a lookback window
// anchored at an explicit date. Rows are ordered by NetTotal descending, ties
// broken by property label ascending.
type NetProfitReport struct {
	Anchor        time.Time       `json:"anchor"`
	LookbackYears int             `json:"lookbackYears"` // 0 means all history
	From          time.Time       `json:"from"`
	Rows          []NetProfitRow  `json:"rows"`
	NetTotal      decimal.Decimal `json:"netTotal"`
}

// ReturnOnEquityRow is one property's ROE figures for a year. RoePct is null
// whenever the valuation is missing or equity is zero or negative history
// makes the ratio meaningless; the aggregator never divides by zero.
type ReturnOnEquityRow struct {
	PropertyID    string              `json:"propertyID"`
	PropertyLabel string              `json:"propertyLabel"`
	Valuation     decimal.NullDecimal `json:"valuation"`
	LoanBalance   decimal.NullDecimal `json:"loanBalance"`
	Equity        decimal.NullDecimal `json:"equity"`
	NetCashFlow   decimal.Decimal     `json:"netCashFlow"`
	RoePct        decimal.NullDecimal `json:"roePct"`
}

// ReturnOnEquityReport holds per-property ROE rows for one year and one
// valuation source.
type ReturnOnEquityReport struct {
	Year   int                 `json:"year"`
	Source ValuationSource     `json:"source"`
	Rows   []ReturnOnEquityRow `json:"rows"`
}

// TrendPoint is one year's total for a category trend. Display is the raw
// signed value with expense magnitudes flipped positive for charting.
type TrendPoint struct {
	Year    int             `json:"year"`
	Raw     decimal.Decimal `json:"raw"`
	Display decimal.Decimal `json:"display"`
}

// CategoryTrendReport pivots one category's yearly totals, optionally scoped
// to a single property.
type CategoryTrendReport struct {
	CategoryID     string       `json:"categoryID"`
	CategoryName   string       `json:"categoryName"`
	CategoryType   CategoryType `json:"categoryType"`
	Points         []TrendPoint `json:"points"`
	Years          []int        `json:"years"`
	PropertyLabels []string     `json:"propertyLabels"` // distinct contributing properties, sorted
}
