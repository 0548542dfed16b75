package cart

import (
	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. UnitPrice is captured at first add and
// Subtotal is always UnitPrice * Quantity.
type LineItem struct {
	ProductID        string            `json:"product_id"`
	Name             string            `json:"name"`
	Image            string            `json:"image,omitempty"`
	SKU              string            `json:"sku,omitempty"`
	VariantID        string            `json:"variant_id,omitempty"`
	Selection        product.Selection `json:"selection"`
	Quantity         int               `json:"quantity"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	MinOrderQuantity int               `json:"min_order_quantity"`
	MaxOrderQuantity int               `json:"max_order_quantity"`
}

func (li *LineItem) setQuantity(qty int) {
	li.Quantity = qty
	li.Subtotal = li.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

func (li LineItem) minQuantity() int {
	if li.MinOrderQuantity < 1 {
		return 1
	}
	return li.MinOrderQuantity
}

// exceedsMax reports whether qty is above the item's bound. Zero means unbounded.
func exceedsMax(max, qty int) bool {
	return max > 0 && qty > max
}
