package dto

import (
	"time"

	"github.com/rentledger/rentledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest defines the data needed to create a new property.
type CreatePropertyRequest struct {
	Nickname     string           `json:"nickname"`
	AddressLine1 string           `json:"addressLine1" binding:"required"`
	AddressLine2 string           `json:"addressLine2"`
	City         string           `json:"city" binding:"required"`
	State        string           `json:"state" binding:"required"`
	PostalCode   string           `json:"postalCode" binding:"required"`
	ZillowValue  *decimal.Decimal `json:"zillowValue"`
	RedfinValue  *decimal.Decimal `json:"redfinValue"`
}

// UpdatePropertyRequest defines the data allowed for updating a property.
type UpdatePropertyRequest struct {
	Nickname     *string          `json:"nickname"`
	AddressLine1 *string          `json:"addressLine1"`
	AddressLine2 *string          `json:"addressLine2"`
	City         *string          `json:"city"`
	State        *string          `json:"state"`
	PostalCode   *string          `json:"postalCode"`
	ZillowValue  *decimal.Decimal `json:"zillowValue"`
	RedfinValue  *decimal.Decimal `json:"redfinValue"`
}

// PropertyResponse defines the data returned for a property.
type PropertyResponse struct {
	PropertyID    string                `json:"propertyID"`
	Nickname      string                `json:"nickname"`
	AddressLine1  string                `json:"addressLine1"`
	AddressLine2  string                `json:"addressLine2,omitempty"`
	City          string                `json:"city"`
	State         string                `json:"state"`
	PostalCode    string                `json:"postalCode"`
	Status        domain.PropertyStatus `json:"status"`
	ZillowValue   *decimal.Decimal      `json:"zillowValue,omitempty"`
	RedfinValue   *decimal.Decimal      `json:"redfinValue,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
}

// ToPropertyResponse converts a domain.Property to PropertyResponse DTO.
func ToPropertyResponse(p *domain.Property) PropertyResponse {
	resp := PropertyResponse{
		PropertyID:    p.PropertyID,
		Nickname:      p.Nickname,
		AddressLine1:  p.AddressLine1,
		AddressLine2:  p.AddressLine2,
		City:          p.City,
		State:         p.State,
		PostalCode:    p.PostalCode,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		LastUpdatedAt: p.LastUpdatedAt,
	}
	if p.ZillowValue.Valid {
		v := p.ZillowValue.Decimal
		resp.ZillowValue = &v
	}
	if p.RedfinValue.Valid {
		v := p.RedfinValue.Decimal
		resp.RedfinValue = &v
	}
	return resp
}

// ToListPropertyResponse converts a slice of domain.Property to DTOs.
func ToListPropertyResponse(properties []domain.Property) []PropertyResponse {
	res := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		res[i] = ToPropertyResponse(&p)
	}
	return res
}
