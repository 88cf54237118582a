package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/rentledger/rentledger/internal/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderCSV(t *testing.T, r *export.Renderer, table export.Table) []string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, r.WriteCSV(&sb, table))
	return strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
}

func TestWriteCSV_FormatsCurrencyCells(t *testing.T) {
	table := export.Table{
		Name: "sample",
		Columns: []export.Column{
			{Name: "Property", Kind: export.ColumnText},
			{Name: "Net", Kind: export.ColumnCurrency},
		},
	}
	table.AddRow(export.Text("Maple St"), export.Number(decimal.RequireFromString("1234.56")))
	table.AddRow(export.Text("Birch Ave"), export.Number(decimal.RequireFromString("-450.25")))

	lines := renderCSV(t, export.NewRenderer("USD"), table)

	require.Len(t, lines, 3)
	assert.Equal(t, "Property,Net", lines[0])
	assert.Equal(t, "Maple St,\"$1,234.56\"", lines[1])
	assert.Equal(t, "Birch Ave,-$450.25", lines[2])
}

func TestWriteCSV_UnknownCurrencyFallsBackToPlainDecimal(t *testing.T) {
	table := export.Table{
		Columns: []export.Column{{Name: "Net", Kind: export.ColumnCurrency}},
	}
	table.AddRow(export.Number(decimal.RequireFromString("1234.5")))

	lines := renderCSV(t, export.NewRenderer("NOPE"), table)

	require.Len(t, lines, 2)
	assert.Equal(t, "1234.50", lines[1])
}

func TestWriteCSV_NullAndEmptyCellsRenderEmpty(t *testing.T) {
	table := export.Table{
		Columns: []export.Column{
			{Name: "Label", Kind: export.ColumnText},
			{Name: "Valuation", Kind: export.ColumnCurrency},
			{Name: "Pct", Kind: export.ColumnNumber},
		},
	}
	table.AddRow(export.Empty(), export.NullNumber(decimal.NullDecimal{}), export.NullNumber(decimal.NullDecimal{
		Decimal: decimal.RequireFromString("7.5"),
		Valid:   true,
	}))

	lines := renderCSV(t, export.NewRenderer("USD"), table)

	require.Len(t, lines, 2)
	assert.Equal(t, ",,7.5", lines[1])
}

func TestWriteCSV_RejectsRaggedRows(t *testing.T) {
	table := export.Table{
		Columns: []export.Column{
			{Name: "A", Kind: export.ColumnText},
			{Name: "B", Kind: export.ColumnText},
		},
	}
	table.AddRow(export.Text("only one cell"))

	var sb strings.Builder
	err := export.NewRenderer("USD").WriteCSV(&sb, table)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
}

func TestProfitLossTable_AppendsTotalsRow(t *testing.T) {
	report := domain.ProfitLossReport{
		From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		Rows: []domain.ProfitLossRow{{
			PropertyID:    "p1",
			PropertyLabel: "Maple St",
			IncomeTotal:   decimal.RequireFromString("2000.00"),
			ExpenseTotal:  decimal.RequireFromString("-450.25"),
			NetTotal:      decimal.RequireFromString("1549.75"),
		}},
		IncomeTotal:  decimal.RequireFromString("2000.00"),
		ExpenseTotal: decimal.RequireFromString("-450.25"),
		NetTotal:     decimal.RequireFromString("1549.75"),
	}

	lines := renderCSV(t, export.NewRenderer("USD"), export.ProfitLossTable(report))

	require.Len(t, lines, 3)
	assert.Equal(t, "Property,Income,Expenses,Net", lines[0])
	assert.Equal(t, "Maple St,\"$2,000.00\",-$450.25,\"$1,549.75\"", lines[1])
	assert.Equal(t, "Total,\"$2,000.00\",-$450.25,\"$1,549.75\"", lines[2])
}

func TestNetProfitTable_RanksRowsAndBlanksTotalRank(t *testing.T) {
	report := domain.NetProfitReport{
		Rows: []domain.NetProfitRow{
			{PropertyLabel: "Walnut Way", IncomeTotal: decimal.RequireFromString("900"), ExpenseTotal: decimal.Zero, NetTotal: decimal.RequireFromString("900")},
			{PropertyLabel: "Cedar Ct", IncomeTotal: decimal.RequireFromString("100"), ExpenseTotal: decimal.Zero, NetTotal: decimal.RequireFromString("100")},
		},
		NetTotal: decimal.RequireFromString("1000"),
	}

	lines := renderCSV(t, export.NewRenderer("USD"), export.NetProfitTable(report))

	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "1,Walnut Way"))
	assert.True(t, strings.HasPrefix(lines[2], "2,Cedar Ct"))
	assert.Equal(t, ",Total,,,\"$1,000.00\"", lines[3])
}

func TestReturnOnEquityTable_NullFiguresStayBlank(t *testing.T) {
	report := domain.ReturnOnEquityReport{
		Year:   2024,
		Source: domain.ValuationZillow,
		Rows: []domain.ReturnOnEquityRow{{
			PropertyLabel: "Maple St",
			NetCashFlow:   decimal.RequireFromString("12000"),
		}},
	}

	lines := renderCSV(t, export.NewRenderer("USD"), export.ReturnOnEquityTable(report))

	require.Len(t, lines, 2)
	assert.Equal(t, "Maple St,,,,\"$12,000.00\",", lines[1])
}
