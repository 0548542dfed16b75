package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalog row the storefront sells. Variant shapes are stored as
// JSON documents; materialized variants live in ProductVariant.
type Product struct {
	ID               string           `gorm:"column:id;primaryKey"`
	Name             string           `gorm:"column:name;not null"`
	Price            decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice    *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)"`
	MinOrderQuantity int              `gorm:"column:min_order_quantity;not null;default:1"`
	MaxOrderQuantity int              `gorm:"column:max_order_quantity;not null;default:0"`
	Images           JSONDocument     `gorm:"column:images"`
	HasVariants      bool             `gorm:"column:has_variants;not null;default:false"`
	ColorVariants    JSONDocument     `gorm:"column:color_variants"`
	SizeVariants     JSONDocument     `gorm:"column:size_variants"`
	WeightVariants   JSONDocument     `gorm:"column:weight_variants"`
	Attributes       JSONDocument     `gorm:"column:attributes"`
	IsActive         bool             `gorm:"column:is_active;not null"`
	Variants         []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
