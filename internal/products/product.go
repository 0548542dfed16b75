package product

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/shopspring/decimal"
)

// SimpleVariant is one option of the per-axis color/size/weight shape some
// products use instead of full attribute definitions.
type SimpleVariant struct {
	Name          string          `json:"name"`
	Unit          string          `json:"unit,omitempty"`
	ColorCode     string          `json:"color_code,omitempty"`
	Image         string          `json:"image,omitempty"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// Product is the catalog record the cart and admin surfaces work with.
type Product struct {
	ID               string                         `json:"id"`
	Name             string                         `json:"name"`
	Price            decimal.Decimal                `json:"price"`
	DiscountPrice    *decimal.Decimal               `json:"discount_price,omitempty"`
	MinOrderQuantity int                            `json:"min_order_quantity"`
	MaxOrderQuantity int                            `json:"max_order_quantity"`
	Images           []string                       `json:"images"`
	HasVariants      bool                           `json:"has_variants"`
	ColorVariants    []SimpleVariant                `json:"color_variants,omitempty"`
	SizeVariants     []SimpleVariant                `json:"size_variants,omitempty"`
	WeightVariants   []SimpleVariant                `json:"weight_variants,omitempty"`
	Attributes       []variants.AttributeDefinition `json:"attributes,omitempty"`
	Variants         []variants.Variant             `json:"variants,omitempty"`
	IsActive         bool                           `json:"is_active"`
	CreatedAt        time.Time                      `json:"created_at"`
	UpdatedAt        time.Time                      `json:"updated_at"`
}

// UnmarshalJSON accepts the legacy "_id" identity field and folds it into ID.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var aux struct {
		plain
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Product(aux.plain)
	if strings.TrimSpace(p.ID) == "" {
		p.ID = aux.LegacyID
	}
	p.ID = strings.TrimSpace(p.ID)
	return nil
}

// BasePrice is the discount price when set and non-zero, else the list price.
func (p Product) BasePrice() decimal.Decimal {
	if p.DiscountPrice != nil && !p.DiscountPrice.IsZero() {
		return *p.DiscountPrice
	}
	return p.Price
}

// MinQuantity never drops below one.
func (p Product) MinQuantity() int {
	if p.MinOrderQuantity < 1 {
		return 1
	}
	return p.MinOrderQuantity
}

// PrimaryImage is the first product image, if any.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FindVariant looks a materialized variant up by id.
func (p Product) FindVariant(id string) (variants.Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return variants.Variant{}, false
}
