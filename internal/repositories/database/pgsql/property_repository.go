package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/apperrors"
	"github.com/rentledger/rentledger/internal/core/domain"
	portsrepo "github.com/rentledger/rentledger/internal/core/ports/repositories"
)

type PgxPropertyRepository struct {
	BaseRepository
}

// newPgxPropertyRepository creates a new repository for property data.
func newPgxPropertyRepository(pool *pgxpool.Pool) portsrepo.PropertyRepositoryFacade {
	return &PgxPropertyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPropertyRepository implements portsrepo.PropertyRepositoryFacade
var _ portsrepo.PropertyRepositoryFacade = (*PgxPropertyRepository)(nil)

const propertyColumns = `property_id, nickname, address_line1, address_line2, city, state, postal_code, status, zillow_value, redfin_value, created_at, created_by, last_updated_at, last_updated_by`

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	if err := row.Scan(
		&p.PropertyID,
		&p.Nickname,
		&p.AddressLine1,
		&p.AddressLine2,
		&p.City,
		&p.State,
		&p.PostalCode,
		&p.Status,
		&p.ZillowValue,
		&p.RedfinValue,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxPropertyRepository) FindPropertyByID(ctx context.Context, propertyID string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE property_id = $1`
	property, err := scanProperty(r.Pool.QueryRow(ctx, query, propertyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find property %s: %w", propertyID, err)
	}
	return property, nil
}

func (r *PgxPropertyRepository) ListProperties(ctx context.Context, includeInactive bool) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	if !includeInactive {
		query += ` WHERE status = 'ACTIVE'`
	}
	// Label order: nickname when present, else the address line.
	query += ` ORDER BY COALESCE(NULLIF(nickname, ''), address_line1), property_id`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

func (r *PgxPropertyRepository) SaveProperty(ctx context.Context, property domain.Property) error {
	query := `
		INSERT INTO properties (property_id, nickname, address_line1, address_line2, city, state, postal_code, status, zillow_value, redfin_value, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.Pool.Exec(ctx, query,
		property.PropertyID,
		property.Nickname,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.State,
		property.PostalCode,
		property.Status,
		property.ZillowValue,
		property.RedfinValue,
		property.CreatedAt,
		property.CreatedBy,
		property.LastUpdatedAt,
		property.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("property %s: %w", property.PropertyID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save property %s: %w", property.PropertyID, err)
	}
	return nil
}

func (r *PgxPropertyRepository) UpdateProperty(ctx context.Context, property domain.Property) error {
	query := `
		UPDATE properties
		SET nickname = $2, address_line1 = $3, address_line2 = $4, city = $5, state = $6, postal_code = $7,
			status = $8, zillow_value = $9, redfin_value = $10, last_updated_at = $11, last_updated_by = $12
		WHERE property_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query,
		property.PropertyID,
		property.Nickname,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.State,
		property.PostalCode,
		property.Status,
		property.ZillowValue,
		property.RedfinValue,
		property.LastUpdatedAt,
		property.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.PropertyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", property.PropertyID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxPropertyRepository) SetPropertyStatus(ctx context.Context, propertyID string, status domain.PropertyStatus, userID string, now time.Time) error {
	query := `
		UPDATE properties
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE property_id = $1
	`
	tag, err := r.Pool.Exec(ctx, query, propertyID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set status for property %s: %w", propertyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("property %s: %w", propertyID, apperrors.ErrNotFound)
	}
	return nil
}
