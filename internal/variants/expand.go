package variants

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpandInput carries everything one regeneration needs.
type ExpandInput struct {
	ProductName string
	Definitions []AttributeDefinition
	Existing    []Variant
	BasePrice   decimal.Decimal
}

// Expander materializes variants from attribute definitions.
type Expander struct {
	skus  *SKUGenerator
	newID func() string
}

// NewExpander returns an Expander using skus for new variant codes.
func NewExpander(skus *SKUGenerator) *Expander {
	if skus == nil {
		skus = NewSKUGenerator(nil, 0)
	}
	return &Expander{skus: skus, newID: uuid.NewString}
}

// ExpandVariants returns one variant per combination of the definitions, in
// definition and value order. Variants in Existing whose attribute set matches
// a combination are returned unchanged. An empty definition list yields no
// variants.
func (e *Expander) ExpandVariants(ctx context.Context, in ExpandInput) ([]Variant, error) {
	if len(in.Definitions) == 0 {
		return []Variant{}, nil
	}
	if err := ValidateDefinitions(in.Definitions); err != nil {
		return nil, err
	}

	byKey := make(map[string]Variant, len(in.Existing))
	taken := make(map[string]struct{}, len(in.Existing))
	for _, v := range in.Existing {
		taken[v.SKU] = struct{}{}
		key := combinationKey(v.Attributes)
		if _, dup := byKey[key]; !dup {
			byKey[key] = v
		}
	}

	combinations := Combinations(in.Definitions)
	out := make([]Variant, 0, len(combinations))
	for _, combination := range combinations {
		if existing, ok := byKey[combinationKey(combination)]; ok {
			out = append(out, existing)
			continue
		}
		price, err := ComputeVariantPrice(combination, in.Definitions, in.BasePrice)
		if err != nil {
			return nil, err
		}
		sku, err := e.skus.Generate(ctx, in.ProductName, combination, taken)
		if err != nil {
			return nil, err
		}
		taken[sku] = struct{}{}
		out = append(out, Variant{
			ID:          e.newID(),
			SKU:         sku,
			Attributes:  combination,
			Price:       price,
			Stock:       0,
			Images:      []string{},
			IsAvailable: true,
		})
	}
	return out, nil
}

// Combinations folds the definitions into their cartesian product.
func Combinations(defs []AttributeDefinition) []Combination {
	if len(defs) == 0 {
		return nil
	}
	acc := []Combination{{}}
	for _, def := range defs {
		next := make([]Combination, 0, len(acc)*len(def.Values))
		for _, prefix := range acc {
			for _, value := range def.Values {
				combination := make(Combination, len(prefix), len(prefix)+1)
				copy(combination, prefix)
				next = append(next, append(combination, entryFor(def, value)))
			}
		}
		acc = next
	}
	return acc
}

// CombinationCount is the number of combinations Combinations would produce.
// It is zero for an empty definition list, matching ExpandVariants.
func CombinationCount(defs []AttributeDefinition) int {
	if len(defs) == 0 {
		return 0
	}
	count := 1
	for _, def := range defs {
		count *= len(def.Values)
	}
	return count
}

func entryFor(def AttributeDefinition, value AttributeValue) CombinationEntry {
	return CombinationEntry{
		AttributeName: def.Name,
		AttributeType: def.Type,
		Value:         value.Value,
		Unit:          value.Unit,
		ColorCode:     value.ColorCode,
	}
}

// combinationKey identifies a combination by its {name, value, unit} set.
func combinationKey(combination Combination) string {
	parts := make([]string, 0, len(combination))
	for _, entry := range combination {
		parts = append(parts, entry.AttributeName+"\x1f"+entry.Value+"\x1f"+entry.Unit)
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x1e")
}
