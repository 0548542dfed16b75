package variants

import (
	"strings"
	"testing"

	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestComputeVariantPriceIgnoresNonPricingAttributes(t *testing.T) {
	t.Parallel()

	defs := colorSizeDefinitions()
	defs[0].Values[0].PriceModifier = decimal.NewFromInt(999)
	combination := Combination{
		{AttributeName: "Color", Value: "Red"},
		{AttributeName: "Size", Value: "M"},
	}

	price, err := ComputeVariantPrice(combination, defs, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected 120, got %s", price)
	}
}

func TestComputeVariantPriceSumsPricingAttributes(t *testing.T) {
	t.Parallel()

	defs := []AttributeDefinition{
		{Name: "Size", AffectsPrice: true, Values: values(map[string]string{"L": "12.50"}, "L")},
		{Name: "Fabric", AffectsPrice: true, Values: values(map[string]string{"Silk": "30.25"}, "Silk")},
		{Name: "Pack", AffectsPrice: true, Values: values(nil, "Single")},
	}
	combination := Combination{
		{AttributeName: "Size", Value: "L"},
		{AttributeName: "Fabric", Value: "Silk"},
		{AttributeName: "Pack", Value: "Single"},
	}

	price, err := ComputeVariantPrice(combination, defs, decimal.RequireFromString("99.99"))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if price.StringFixed(2) != "142.74" {
		t.Fatalf("expected 142.74, got %s", price.StringFixed(2))
	}
}

func TestComputeVariantPriceRoundsHalfAwayFromZero(t *testing.T) {
	t.Parallel()

	cases := []struct {
		base     string
		modifier string
		want     string
	}{
		{base: "100", modifier: "0.005", want: "100.01"},
		{base: "100", modifier: "0.004", want: "100.00"},
		{base: "10.125", modifier: "0", want: "10.13"},
		{base: "5", modifier: "-0.005", want: "5.00"},
	}

	for _, tc := range cases {
		defs := []AttributeDefinition{{Name: "Size", AffectsPrice: true, Values: values(map[string]string{"X": tc.modifier}, "X")}}
		price, err := ComputeVariantPrice(Combination{{AttributeName: "Size", Value: "X"}}, defs, dec(t, tc.base))
		if err != nil {
			t.Fatalf("base %s modifier %s: %v", tc.base, tc.modifier, err)
		}
		if price.StringFixed(2) != tc.want {
			t.Fatalf("base %s modifier %s: expected %s, got %s", tc.base, tc.modifier, tc.want, price.StringFixed(2))
		}
	}
}

func TestComputeVariantPriceNegativeIsConfigurationError(t *testing.T) {
	t.Parallel()

	defs := []AttributeDefinition{
		{Name: "Color", Values: values(nil, "Red")},
		{Name: "Size", AffectsPrice: true, Values: values(map[string]string{"XS": "-20"}, "XS")},
	}
	_, err := ComputeVariantPrice(Combination{{AttributeName: "Color", Value: "Red"}, {AttributeName: "Size", Value: "XS"}}, defs, decimal.NewFromInt(10))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Color=Red/Size=XS") {
		t.Fatalf("expected combination in message, got %q", err.Error())
	}
}

func TestComputeVariantPriceUnknownAttribute(t *testing.T) {
	t.Parallel()

	_, err := ComputeVariantPrice(Combination{{AttributeName: "Ghost", Value: "x"}}, nil, decimal.NewFromInt(10))
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
