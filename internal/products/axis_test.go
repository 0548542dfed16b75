package product

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestProductUnmarshalLegacyID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical", raw: `{"id":"p-1","name":"Tea","price":"50"}`, want: "p-1"},
		{name: "legacy", raw: `{"_id":"p-2","name":"Tea","price":50}`, want: "p-2"},
		{name: "canonical wins", raw: `{"id":"p-3","_id":"old","name":"Tea","price":50}`, want: "p-3"},
	}
	for _, tc := range cases {
		var p Product
		if err := json.Unmarshal([]byte(tc.raw), &p); err != nil {
			t.Fatalf("%s: unmarshal: %v", tc.name, err)
		}
		if p.ID != tc.want {
			t.Fatalf("%s: expected id %q, got %q", tc.name, tc.want, p.ID)
		}
		if p.Name != "Tea" || !p.Price.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("%s: fields not decoded: %+v", tc.name, p)
		}
	}

	encoded, err := json.Marshal(Product{ID: "p-9"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	if _, ok := generic["_id"]; ok || generic["id"] != "p-9" {
		t.Fatalf("expected canonical id only, got %s", encoded)
	}
}

func simpleProduct() Product {
	discount := decimal.NewFromInt(45)
	return Product{
		ID:               "tea-1",
		Name:             "Assam Tea",
		Price:            decimal.NewFromInt(50),
		DiscountPrice:    &discount,
		MaxOrderQuantity: 5,
		Images:           []string{"tea.jpg"},
		HasVariants:      true,
		ColorVariants: []SimpleVariant{
			{Name: "Black", Image: "black.jpg"},
			{Name: "Green", Image: "green.jpg"},
		},
		WeightVariants: []SimpleVariant{
			{Name: "250", Unit: "g"},
			{Name: "500", Unit: "g", PriceModifier: decimal.NewFromInt(40)},
		},
	}
}

func TestAxesFromSimpleVariants(t *testing.T) {
	t.Parallel()

	axes := simpleProduct().Axes()
	if len(axes) != 2 {
		t.Fatalf("expected 2 axes, got %d", len(axes))
	}
	if axes[0].Kind != AxisColor || axes[0].AffectsPrice || !axes[0].AffectsImage {
		t.Fatalf("unexpected color axis %+v", axes[0])
	}
	if axes[1].Kind != AxisWeight || !axes[1].AffectsPrice || axes[1].AffectsImage {
		t.Fatalf("unexpected weight axis %+v", axes[1])
	}
}

func TestResolveSimpleSelection(t *testing.T) {
	t.Parallel()

	p := simpleProduct()

	res, err := Resolve(p, Selection{})
	if err != nil {
		t.Fatalf("resolve empty: %v", err)
	}
	if !res.UnitPrice.Equal(decimal.NewFromInt(45)) || res.Image != "tea.jpg" {
		t.Fatalf("expected discount price and primary image, got %+v", res)
	}

	res, err = Resolve(p, Selection{Color: "Green", Weight: "500"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.UnitPrice.Equal(decimal.NewFromInt(85)) || !res.PriceDelta.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected 85 with delta 40, got %+v", res)
	}
	if res.Image != "green.jpg" || res.SKU != "" {
		t.Fatalf("unexpected image or sku %+v", res)
	}

	if _, err := Resolve(p, Selection{Color: "Purple"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown option, got %v", err)
	}
	if _, err := Resolve(p, Selection{Attributes: map[string]string{"Size": "M"}}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown attribute, got %v", err)
	}
}

func fullProduct() Product {
	return Product{
		ID:    "tee-1",
		Name:  "Cotton Tee",
		Price: decimal.NewFromInt(100),
		Attributes: []variants.AttributeDefinition{
			{Name: "Color", IsRequired: true, AffectsImage: true, Values: []variants.AttributeValue{
				{Value: "Red", ImageURL: "red.jpg"},
				{Value: "Blue"},
			}},
			{Name: "Size", AffectsPrice: true, Values: []variants.AttributeValue{
				{Value: "S"},
				{Value: "M", PriceModifier: decimal.NewFromInt(20)},
			}},
		},
		Variants: []variants.Variant{
			{
				ID:          "v-red-m",
				SKU:         "COTTON-RE-M-0002",
				Attributes:  variants.Combination{{AttributeName: "Color", Value: "Red"}, {AttributeName: "Size", Value: "M"}},
				Price:       decimal.NewFromInt(118),
				IsAvailable: true,
			},
			{
				ID:          "v-blue-s",
				SKU:         "COTTON-BL-S-0003",
				Attributes:  variants.Combination{{AttributeName: "Color", Value: "Blue"}, {AttributeName: "Size", Value: "S"}},
				Price:       decimal.NewFromInt(100),
				IsAvailable: false,
			},
		},
	}
}

func TestResolveMaterializedVariant(t *testing.T) {
	t.Parallel()

	p := fullProduct()
	res, err := Resolve(p, Selection{Attributes: map[string]string{"Color": "Red", "Size": "M"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.VariantID != "v-red-m" || res.SKU != "COTTON-RE-M-0002" {
		t.Fatalf("expected materialized variant, got %+v", res)
	}
	if !res.UnitPrice.Equal(decimal.NewFromInt(118)) || !res.PriceDelta.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("expected admin-edited variant price, got %+v", res)
	}
	if res.Image != "red.jpg" {
		t.Fatalf("expected option image, got %q", res.Image)
	}

	if _, err := Resolve(p, Selection{Attributes: map[string]string{"Color": "Blue", "Size": "S"}}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unavailable variant to be rejected, got %v", err)
	}
}

func TestResolveDiscountReachesGeneratedVariants(t *testing.T) {
	t.Parallel()

	discount := decimal.NewFromInt(80)
	p := Product{
		ID:            "tee-2",
		Name:          "Linen Tee",
		Price:         decimal.NewFromInt(100),
		DiscountPrice: &discount,
		Attributes: []variants.AttributeDefinition{
			{Name: "Size", AffectsPrice: true, Values: []variants.AttributeValue{
				{Value: "S"},
				{Value: "M", PriceModifier: decimal.NewFromInt(20)},
			}},
		},
	}
	generated, err := variants.NewExpander(nil).ExpandVariants(context.Background(), variants.ExpandInput{
		ProductName: p.Name,
		Definitions: p.Attributes,
		BasePrice:   p.Price,
	})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	p.Variants = generated

	cases := []struct {
		name string
		sel  Selection
		want string
	}{
		{name: "no selection", sel: Selection{}, want: "80"},
		{name: "size S", sel: Selection{Attributes: map[string]string{"Size": "S"}}, want: "80"},
		{name: "size M", sel: Selection{Attributes: map[string]string{"Size": "M"}}, want: "100"},
	}
	for _, tc := range cases {
		res, err := Resolve(p, tc.sel)
		if err != nil {
			t.Fatalf("%s: resolve: %v", tc.name, err)
		}
		if !res.UnitPrice.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("%s: expected unit price %s, got %s", tc.name, tc.want, res.UnitPrice)
		}
		if !tc.sel.IsEmpty() && res.VariantID == "" {
			t.Fatalf("%s: expected materialized variant, got %+v", tc.name, res)
		}
	}

	own := decimal.NewFromInt(70)
	p.Variants[1].DiscountPrice = &own
	res, err := Resolve(p, Selection{Attributes: map[string]string{"Size": "M"}})
	if err != nil {
		t.Fatalf("resolve variant discount: %v", err)
	}
	if !res.UnitPrice.Equal(own) || !res.PriceDelta.Equal(decimal.NewFromInt(-10)) {
		t.Fatalf("expected the variant's own discount, got %+v", res)
	}
}

func TestResolveRejectsSimpleFieldsOnAttributeProducts(t *testing.T) {
	t.Parallel()

	p := fullProduct()
	cases := []Selection{
		{Color: "Red", Attributes: map[string]string{"Color": "Red"}},
		{Size: "M", Attributes: map[string]string{"Color": "Red"}},
		{Weight: "500", Attributes: map[string]string{"Color": "Red"}},
	}
	for _, sel := range cases {
		if _, err := Resolve(p, sel); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %+v, got %v", sel, err)
		}
	}
}

func TestResolvePartialAttributeSelection(t *testing.T) {
	t.Parallel()

	p := fullProduct()
	res, err := Resolve(p, Selection{Attributes: map[string]string{"Color": "Blue"}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.VariantID != "" || !res.UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected delta pricing without a variant, got %+v", res)
	}

	if _, err := Resolve(p, Selection{Attributes: map[string]string{"Size": "M"}}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected required color to be enforced, got %v", err)
	}
}

func TestSelectionKeyIsStable(t *testing.T) {
	t.Parallel()

	a := Selection{Color: "Red", Attributes: map[string]string{"b": "2", "a": "1"}}
	b := Selection{Color: "Red", Attributes: map[string]string{"a": "1", "b": "2"}}
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %q and %q", a.Key(), b.Key())
	}
	if (Selection{}).IsEmpty() != true || a.IsEmpty() {
		t.Fatal("unexpected IsEmpty result")
	}
}
