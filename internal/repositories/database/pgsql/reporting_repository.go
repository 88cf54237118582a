package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates the read-only reporting repository.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// propertyLabelExpr mirrors domain.Property.Label: nickname when set,
// otherwise the first address line.
const propertyLabelExpr = `COALESCE(NULLIF(p.nickname, ''), p.address_line1)`

func (r *PgxReportingRepository) ListLedgerEntries(ctx context.Context, filter portsrepo.LedgerFilter) ([]domain.LedgerEntry, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.transaction_id, t.property_id, ` + propertyLabelExpr + `, t.category_id, c.name, c.type, t.txn_date, t.amount
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		JOIN properties p ON p.property_id = t.property_id
		WHERE t.deleted_at IS NULL`)

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !filter.IncludeTransfers {
		sb.WriteString(" AND c.type <> " + arg(string(domain.CategoryTypeTransfer)))
	}
	if filter.PropertyID != "" {
		sb.WriteString(" AND t.property_id = " + arg(filter.PropertyID))
	}
	if filter.CategoryID != "" {
		sb.WriteString(" AND t.category_id = " + arg(filter.CategoryID))
	}
	if filter.From != nil {
		sb.WriteString(" AND t.txn_date >= " + arg(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(" AND t.txn_date <= " + arg(*filter.To))
	}
	sb.WriteString(" ORDER BY t.txn_date, t.transaction_id")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(
			&e.TransactionID,
			&e.PropertyID,
			&e.PropertyLabel,
			&e.CategoryID,
			&e.CategoryName,
			&e.CategoryType,
			&e.Date,
			&e.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

func (r *PgxReportingRepository) ListAnnualLedgerEntries(ctx context.Context, year int, propertyID string, categoryID string) ([]domain.AnnualLedgerEntry, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT a.property_id, ` + propertyLabelExpr + `, a.category_id, c.name, c.type, a.year, a.amount
		FROM annual_category_amounts a
		JOIN categories c ON c.category_id = a.category_id
		JOIN properties p ON p.property_id = a.property_id
		WHERE TRUE`)

	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if year != 0 {
		sb.WriteString(" AND a.year = " + arg(year))
	}
	if propertyID != "" {
		sb.WriteString(" AND a.property_id = " + arg(propertyID))
	}
	if categoryID != "" {
		sb.WriteString(" AND a.category_id = " + arg(categoryID))
	}
	sb.WriteString(" ORDER BY a.year, " + propertyLabelExpr + ", a.category_id")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list annual ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.AnnualLedgerEntry{}
	for rows.Next() {
		var e domain.AnnualLedgerEntry
		if err := rows.Scan(
			&e.PropertyID,
			&e.PropertyLabel,
			&e.CategoryID,
			&e.CategoryName,
			&e.CategoryType,
			&e.Year,
			&e.Amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan annual ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate annual ledger entries: %w", err)
	}
	return entries, nil
}
