// Package export renders reports as ordered typed columns for download.
// Columns carry a kind so renderers can format currency cells without the
// report services knowing anything about presentation.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ColumnKind tells the renderer how to format a column's cells.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnNumber
	ColumnCurrency
)

// Column is one ordered, named, typed report column.
type Column struct {
	Name string
	Kind ColumnKind
}

// Cell is a single typed value. Null cells render empty.
type Cell struct {
	text   string
	number decimal.Decimal
	isText bool
	valid  bool
}

// Text builds a text cell.
func Text(s string) Cell {
	return Cell{text: s, isText: true, valid: true}
}

// Empty builds a cell that always renders as the empty string.
func Empty() Cell {
	return Cell{}
}

// Number builds a numeric cell.
func Number(d decimal.Decimal) Cell {
	return Cell{number: d, valid: true}
}

// NullNumber builds a numeric cell that renders empty when invalid.
func NullNumber(d decimal.NullDecimal) Cell {
	return Cell{number: d.Decimal, valid: d.Valid}
}

// Table is an ordered set of typed columns with rows of matching width.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]Cell
}

// AddRow appends one row. The caller is responsible for matching the column
// count; WriteCSV rejects ragged tables.
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Renderer formats a Table into a byte stream.
type Renderer struct {
	currency *money.Currency
}

// NewRenderer builds a renderer formatting currency cells in the given ISO
// currency code. An unknown code falls back to plain decimal text.
func NewRenderer(currencyCode string) *Renderer {
	return &Renderer{currency: money.GetCurrency(currencyCode)}
}

// WriteCSV renders the table as RFC 4180 CSV with a header row.
func (r *Renderer) WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = r.renderCell(t.Columns[j].Kind, cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (r *Renderer) renderCell(kind ColumnKind, cell Cell) string {
	if !cell.valid {
		return ""
	}
	if cell.isText {
		return cell.text
	}
	switch kind {
	case ColumnCurrency:
		return r.formatCurrency(cell.number)
	default:
		return cell.number.String()
	}
}

// formatCurrency shifts the decimal into minor units and lets go-money apply
// the currency's grouping, symbol, and fraction digits.
func (r *Renderer) formatCurrency(d decimal.Decimal) string {
	if r.currency == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(r.currency.Fraction))
	return r.currency.Formatter().Format(minor.IntPart())
}
