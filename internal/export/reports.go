package export

import (
	"fmt"

	"github.com/rentledger/rentledger/internal/core/domain"
)

// ProfitLossTable flattens a profit and loss report into rows per property
// plus a trailing totals row.
func ProfitLossTable(report domain.ProfitLossReport) Table {
	t := Table{
		Name: "profit-loss",
		Columns: []Column{
			{Name: "Property", Kind: ColumnText},
			{Name: "Income", Kind: ColumnCurrency},
			{Name: "Expenses", Kind: ColumnCurrency},
			{Name: "Net", Kind: ColumnCurrency},
		},
	}
	for _, row := range report.Rows {
		t.AddRow(Text(row.PropertyLabel), Number(row.IncomeTotal), Number(row.ExpenseTotal), Number(row.NetTotal))
	}
	t.AddRow(Text("Total"), Number(report.IncomeTotal), Number(report.ExpenseTotal), Number(report.NetTotal))
	return t
}

// NetProfitTable flattens a net profit ranking into ranked rows plus a
// trailing totals row.
func NetProfitTable(report domain.NetProfitReport) Table {
	t := Table{
		Name: "net-profit",
		Columns: []Column{
			{Name: "Rank", Kind: ColumnText},
			{Name: "Property", Kind: ColumnText},
			{Name: "Income", Kind: ColumnCurrency},
			{Name: "Expenses", Kind: ColumnCurrency},
			{Name: "Net", Kind: ColumnCurrency},
		},
	}
	for i, row := range report.Rows {
		t.AddRow(Text(fmt.Sprintf("%d", i+1)), Text(row.PropertyLabel), Number(row.IncomeTotal), Number(row.ExpenseTotal), Number(row.NetTotal))
	}
	t.AddRow(Empty(), Text("Total"), Empty(), Empty(), Number(report.NetTotal))
	return t
}

// ReturnOnEquityTable flattens the per-property ROE rows. Null valuations,
// balances, and percentages render as empty cells.
func ReturnOnEquityTable(report domain.ReturnOnEquityReport) Table {
	t := Table{
		Name: fmt.Sprintf("roe-%d", report.Year),
		Columns: []Column{
			{Name: "Property", Kind: ColumnText},
			{Name: "Valuation", Kind: ColumnCurrency},
			{Name: "Loan Balance", Kind: ColumnCurrency},
			{Name: "Equity", Kind: ColumnCurrency},
			{Name: "Net Cash Flow", Kind: ColumnCurrency},
			{Name: "ROE %", Kind: ColumnNumber},
		},
	}
	for _, row := range report.Rows {
		t.AddRow(
			Text(row.PropertyLabel),
			NullNumber(row.Valuation),
			NullNumber(row.LoanBalance),
			NullNumber(row.Equity),
			Number(row.NetCashFlow),
			NullNumber(row.RoePct),
		)
	}
	return t
}

// CategoryTrendTable flattens a yearly trend into one row per year using the
// display (magnitude) value.
func CategoryTrendTable(report domain.CategoryTrendReport) Table {
	t := Table{
		Name: "trend-" + report.CategoryID,
		Columns: []Column{
			{Name: "Year", Kind: ColumnText},
			{Name: report.CategoryName, Kind: ColumnCurrency},
		},
	}
	for _, point := range report.Points {
		t.AddRow(Text(fmt.Sprintf("%d", point.Year)), Number(point.Display))
	}
	return t
}
