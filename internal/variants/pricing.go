package variants

import (
	"strings"

	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimal places prices are rounded to.
const PricePlaces = 2

// RoundPrice rounds half away from zero to PricePlaces.
func RoundPrice(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(PricePlaces)
}

// ComputeVariantPrice starts from basePrice and adds the modifier of every
// selected value whose attribute affects price. A negative result is a
// configuration error.
func ComputeVariantPrice(combination Combination, defs []AttributeDefinition, basePrice decimal.Decimal) (decimal.Decimal, error) {
	byName := make(map[string]AttributeDefinition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	price := basePrice
	for _, entry := range combination {
		def, ok := byName[entry.AttributeName]
		if !ok {
			return decimal.Zero, pkgerrors.Newf(pkgerrors.CodeConfiguration, "attribute %q is not defined", entry.AttributeName)
		}
		if !def.AffectsPrice {
			continue
		}
		if value, ok := def.FindValue(entry.Value); ok {
			price = price.Add(value.PriceModifier)
		}
	}

	price = RoundPrice(price)
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.Newf(pkgerrors.CodeConfiguration, "combination %s prices below zero (%s)", describe(combination), price.StringFixed(PricePlaces)).
			WithDetails(map[string]any{"combination": combination, "price": price.StringFixed(PricePlaces)})
	}
	return price, nil
}

func describe(combination Combination) string {
	parts := make([]string, 0, len(combination))
	for _, entry := range combination {
		parts = append(parts, entry.AttributeName+"="+entry.Value)
	}
	return strings.Join(parts, "/")
}
