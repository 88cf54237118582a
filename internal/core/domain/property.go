package domain

import "github.com/shopspring/decimal"

// PropertyStatus marks whether a property is actively managed.
type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "ACTIVE"
	PropertyInactive PropertyStatus = "INACTIVE"
)

// ValuationSource names one of the external estimate providers a property
// valuation can come from.
type ValuationSource string

const (
	ValuationZillow ValuationSource = "ZILLOW"
	ValuationRedfin ValuationSource = "REDFIN"
)

// IsValid reports whether s names a known valuation source.
func (s ValuationSource) IsValid() bool {
	return s == ValuationZillow || s == ValuationRedfin
}

// Property is a rental unit. It owns its transactions, recurring rules, and
// loan snapshots; categories are shared across properties.
type Property struct {
	PropertyID   string              `json:"propertyID"`
	Nickname     string              `json:"nickname"`
	AddressLine1 string              `json:"addressLine1"`
	AddressLine2 string              `json:"addressLine2,omitempty"`
	City         string              `json:"city"`
	State        string              `json:"state"`
	PostalCode   string              `json:"postalCode"`
	Status       PropertyStatus      `json:"status"`
	ZillowValue  decimal.NullDecimal `json:"zillowValue"`
	RedfinValue  decimal.NullDecimal `json:"redfinValue"`
	AuditFields
}

// Label is the display name used to identify the property in reports: the
// nickname when set, otherwise the first address line.
func (p Property) Label() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return p.AddressLine1
}

// ValuationFor returns the estimate from the requested source, invalid when
// that provider has no figure for the property.
func (p Property) ValuationFor(source ValuationSource) decimal.NullDecimal {
	switch source {
	case ValuationZillow:
		return p.ZillowValue
	case ValuationRedfin:
		return p.RedfinValue
	}
	return decimal.NullDecimal{}
}
