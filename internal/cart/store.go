package cart

import (
	"sync"

	product "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// Outcome describes what an add did to the cart.
type Outcome string

const (
	OutcomeAdded           Outcome = "added"
	OutcomeMerged          Outcome = "merged"
	OutcomeClampedToMax    Outcome = "clamped_to_max"
	OutcomeRejectedOverMax Outcome = "rejected_over_max"
)

// AddResult reports the outcome of Add and the line item as it now stands.
// Item is the zero value when a new product was rejected.
type AddResult struct {
	Outcome   Outcome  `json:"outcome"`
	Requested int      `json:"requested"`
	Item      LineItem `json:"item"`
}

// Store owns the ordered line items of one cart and keeps the count and total
// in step with them.
type Store struct {
	mu     sync.Mutex
	policy enums.OverMaxPolicy
	items  []LineItem
	count  int
	total  decimal.Decimal
}

// NewStore returns an empty cart applying policy when a quantity would pass
// a product's maximum.
func NewStore(policy enums.OverMaxPolicy) *Store {
	if !policy.IsValid() {
		policy = enums.OverMaxPolicyReject
	}
	return &Store{policy: policy, total: decimal.Zero}
}

// Add puts qty of p into the cart. A product already in the cart has its
// quantity merged against p's current maximum and keeps the unit price
// captured when it was first added.
func (s *Store) Add(p product.Product, qty int, sel product.Selection) (AddResult, error) {
	if p.ID == "" {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if qty <= 0 {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := AddResult{Requested: qty}
	if idx := s.indexOf(p.ID); idx >= 0 {
		item := &s.items[idx]
		// The bound follows the catalog; the unit price stays as first added.
		item.MaxOrderQuantity = p.MaxOrderQuantity
		next := item.Quantity + qty
		switch {
		case !exceedsMax(item.MaxOrderQuantity, next):
			item.setQuantity(next)
			result.Outcome = OutcomeMerged
		case s.policy == enums.OverMaxPolicyClamp:
			item.setQuantity(item.MaxOrderQuantity)
			result.Outcome = OutcomeClampedToMax
		default:
			result.Outcome = OutcomeRejectedOverMax
		}
		s.recompute()
		result.Item = *item
		return result, nil
	}

	if qty < p.MinQuantity() {
		return AddResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "minimum order quantity is %d", p.MinQuantity())
	}
	res, err := product.Resolve(p, sel)
	if err != nil {
		return AddResult{}, err
	}

	result.Outcome = OutcomeAdded
	if exceedsMax(p.MaxOrderQuantity, qty) {
		if s.policy != enums.OverMaxPolicyClamp {
			result.Outcome = OutcomeRejectedOverMax
			return result, nil
		}
		qty = p.MaxOrderQuantity
		result.Outcome = OutcomeClampedToMax
	}

	item := LineItem{
		ProductID:        p.ID,
		Name:             p.Name,
		Image:            res.Image,
		SKU:              res.SKU,
		VariantID:        res.VariantID,
		Selection:        sel,
		UnitPrice:        res.UnitPrice,
		MinOrderQuantity: p.MinQuantity(),
		MaxOrderQuantity: p.MaxOrderQuantity,
	}
	item.setQuantity(qty)
	s.items = append(s.items, item)
	s.recompute()
	result.Item = item
	return result, nil
}

// Update sets the quantity of a line item. A quantity of zero or less removes
// it; an absent product is ignored.
func (s *Store) Update(productID string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}
	if qty <= 0 {
		s.removeAt(idx)
		s.recompute()
		return nil
	}

	item := &s.items[idx]
	if qty < item.minQuantity() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "minimum order quantity is %d", item.minQuantity())
	}
	if exceedsMax(item.MaxOrderQuantity, qty) {
		if s.policy != enums.OverMaxPolicyClamp {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "maximum order quantity is %d", item.MaxOrderQuantity).
				WithDetails(map[string]any{"max_order_quantity": item.MaxOrderQuantity})
		}
		qty = item.MaxOrderQuantity
	}
	item.setQuantity(qty)
	s.recompute()
	return nil
}

// Remove drops the product's line item, if present.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(productID); idx >= 0 {
		s.removeAt(idx)
	}
	s.recompute()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.recompute()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the sum of line item quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Total is the sum of line item subtotals.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}

// recompute rebuilds the aggregates from the line items. Callers hold mu.
func (s *Store) recompute() {
	count := 0
	total := decimal.Zero
	for _, item := range s.items {
		count += item.Quantity
		total = total.Add(item.Subtotal)
	}
	s.count = count
	s.total = total
}
