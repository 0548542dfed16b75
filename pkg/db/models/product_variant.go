package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant is one materialized sellable unit of a product.
type ProductVariant struct {
	ID            string           `gorm:"column:id;primaryKey"`
	ProductID     string           `gorm:"column:product_id;not null;index:product_variants_product_id_idx;uniqueIndex:product_variants_product_sku_key"`
	SKU           string           `gorm:"column:sku;not null;uniqueIndex:product_variants_product_sku_key"`
	Position      int              `gorm:"column:position;not null;default:0"`
	Attributes    JSONDocument     `gorm:"column:attributes;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)"`
	Stock         int              `gorm:"column:stock;not null;default:0"`
	Images        JSONDocument     `gorm:"column:images"`
	IsAvailable   bool             `gorm:"column:is_available;not null"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
