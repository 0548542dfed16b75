// Package variants materializes a product's sellable variants from its attribute
// configuration: cartesian expansion, SKU generation and modifier pricing.
package variants

import (
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// LocalizedText maps a locale code to display text.
type LocalizedText map[string]string

// AttributeValue is one permitted value of an attribute.
type AttributeValue struct {
	Value         string          `json:"value"`
	DisplayName   LocalizedText   `json:"display_name,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	ColorCode     string          `json:"color_code,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	StockModifier int             `json:"stock_modifier"`
}

// AttributeDefinition is a configurable product dimension and its value domain.
type AttributeDefinition struct {
	Name         string              `json:"name"`
	Type         enums.AttributeType `json:"type"`
	DisplayName  LocalizedText       `json:"display_name,omitempty"`
	IsRequired   bool                `json:"is_required"`
	AffectsPrice bool                `json:"affects_price"`
	AffectsStock bool                `json:"affects_stock"`
	AffectsImage bool                `json:"affects_image"`
	Values       []AttributeValue    `json:"values"`
}

// FindValue returns the value entry matching value, if any.
func (d AttributeDefinition) FindValue(value string) (AttributeValue, bool) {
	for _, v := range d.Values {
		if v.Value == value {
			return v, true
		}
	}
	return AttributeValue{}, false
}

// CombinationEntry is one (attribute, value) pick inside a combination.
type CombinationEntry struct {
	AttributeName string              `json:"attribute_name"`
	AttributeType enums.AttributeType `json:"attribute_type"`
	Value         string              `json:"value"`
	Unit          string              `json:"unit,omitempty"`
	ColorCode     string              `json:"color_code,omitempty"`
}

// Combination holds exactly one entry per attribute definition, in definition order.
type Combination []CombinationEntry

// Get returns the entry for the named attribute.
func (c Combination) Get(attributeName string) (CombinationEntry, bool) {
	for _, entry := range c {
		if entry.AttributeName == attributeName {
			return entry, true
		}
	}
	return CombinationEntry{}, false
}

// Variant is a materialized sellable unit.
type Variant struct {
	ID            string           `json:"id"`
	SKU           string           `json:"sku"`
	Attributes    Combination      `json:"attributes"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Stock         int              `json:"stock"`
	Images        []string         `json:"images"`
	IsAvailable   bool             `json:"is_available"`
}

// EffectivePrice is the discount price when one is set, else the price.
func (v Variant) EffectivePrice() decimal.Decimal {
	if v.DiscountPrice != nil && v.DiscountPrice.IsPositive() {
		return *v.DiscountPrice
	}
	return v.Price
}

// Validate checks the invariants administrative edits must keep.
func (v Variant) Validate() error {
	if v.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
	}
	if v.DiscountPrice != nil {
		if v.DiscountPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant discount price cannot be negative")
		}
		if !v.DiscountPrice.LessThan(v.Price) {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant discount price must be below price")
		}
	}
	if v.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
	}
	return nil
}
