package product

import (
	"sort"
	"strings"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

// AxisKind tags where an axis came from.
type AxisKind string

const (
	AxisColor     AxisKind = "color"
	AxisSize      AxisKind = "size"
	AxisWeight    AxisKind = "weight"
	AxisAttribute AxisKind = "attribute"
)

// AxisOption is one selectable value of an axis.
type AxisOption struct {
	Value      string          `json:"value"`
	Unit       string          `json:"unit,omitempty"`
	ColorCode  string          `json:"color_code,omitempty"`
	Image      string          `json:"image,omitempty"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Axis is a selectable product dimension, whichever variant shape it came from.
type Axis struct {
	Name         string       `json:"name"`
	Kind         AxisKind     `json:"kind"`
	Required     bool         `json:"required"`
	AffectsPrice bool         `json:"affects_price"`
	AffectsImage bool         `json:"affects_image"`
	Options      []AxisOption `json:"options"`
}

func (a Axis) option(value string) (AxisOption, bool) {
	for _, opt := range a.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return AxisOption{}, false
}

// Selection is the shopper's pick across a product's axes.
type Selection struct {
	Color      string            `json:"color,omitempty"`
	Size       string            `json:"size,omitempty"`
	Weight     string            `json:"weight,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// IsEmpty reports whether nothing was selected.
func (s Selection) IsEmpty() bool {
	return s.Color == "" && s.Size == "" && s.Weight == "" && len(s.Attributes) == 0
}

// ValueFor returns the selected value for the axis.
func (s Selection) ValueFor(axis Axis) string {
	switch axis.Kind {
	case AxisColor:
		return s.Color
	case AxisSize:
		return s.Size
	case AxisWeight:
		return s.Weight
	default:
		return s.Attributes[axis.Name]
	}
}

// Key is a stable textual form of the selection.
func (s Selection) Key() string {
	parts := []string{"color=" + s.Color, "size=" + s.Size, "weight=" + s.Weight}
	names := make([]string, 0, len(s.Attributes))
	for name := range s.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+"="+s.Attributes[name])
	}
	return strings.Join(parts, ";")
}

// Axes maps the product's variant configuration onto selectable axes. Full
// attribute definitions win over the simplified per-axis shape.
func (p Product) Axes() []Axis {
	if len(p.Attributes) > 0 {
		axes := make([]Axis, 0, len(p.Attributes))
		for _, def := range p.Attributes {
			axis := Axis{
				Name:         def.Name,
				Kind:         AxisAttribute,
				Required:     def.IsRequired,
				AffectsPrice: def.AffectsPrice,
				AffectsImage: def.AffectsImage,
				Options:      make([]AxisOption, 0, len(def.Values)),
			}
			for _, v := range def.Values {
				axis.Options = append(axis.Options, AxisOption{
					Value:      v.Value,
					Unit:       v.Unit,
					ColorCode:  v.ColorCode,
					Image:      v.ImageURL,
					PriceDelta: v.PriceModifier,
				})
			}
			axes = append(axes, axis)
		}
		return axes
	}

	var axes []Axis
	for _, simple := range []struct {
		kind    AxisKind
		options []SimpleVariant
	}{
		{AxisColor, p.ColorVariants},
		{AxisSize, p.SizeVariants},
		{AxisWeight, p.WeightVariants},
	} {
		if len(simple.options) == 0 {
			continue
		}
		axis := Axis{Name: string(simple.kind), Kind: simple.kind, Options: make([]AxisOption, 0, len(simple.options))}
		for _, opt := range simple.options {
			if !opt.PriceModifier.IsZero() {
				axis.AffectsPrice = true
			}
			if opt.Image != "" {
				axis.AffectsImage = true
			}
			axis.Options = append(axis.Options, AxisOption{
				Value:      opt.Name,
				Unit:       opt.Unit,
				ColorCode:  opt.ColorCode,
				Image:      opt.Image,
				PriceDelta: opt.PriceModifier,
			})
		}
		axes = append(axes, axis)
	}
	return axes
}

// Resolution is the priced outcome of a selection.
type Resolution struct {
	UnitPrice  decimal.Decimal `json:"unit_price"`
	PriceDelta decimal.Decimal `json:"price_delta"`
	SKU        string          `json:"sku,omitempty"`
	Image      string          `json:"image,omitempty"`
	VariantID  string          `json:"variant_id,omitempty"`
}

// Resolve prices a selection against the product. A selection that pins a
// materialized variant uses that variant's price and SKU; otherwise the
// selected options' deltas are added to the product's base price.
func Resolve(p Product, sel Selection) (Resolution, error) {
	base := p.BasePrice()
	res := Resolution{UnitPrice: base, PriceDelta: decimal.Zero, Image: p.PrimaryImage()}

	axes := p.Axes()
	delta := decimal.Zero
	picked := make(map[string]AxisOption, len(axes))
	for _, axis := range axes {
		value := sel.ValueFor(axis)
		if value == "" {
			if axis.Required {
				return Resolution{}, pkgerrors.Newf(pkgerrors.CodeValidation, "%s selection is required", axis.Name)
			}
			continue
		}
		opt, ok := axis.option(value)
		if !ok {
			return Resolution{}, pkgerrors.Newf(pkgerrors.CodeValidation, "%q is not a valid %s", value, axis.Name)
		}
		picked[axis.Name] = opt
		if axis.AffectsPrice {
			delta = delta.Add(opt.PriceDelta)
		}
		if axis.AffectsImage && opt.Image != "" {
			res.Image = opt.Image
		}
	}
	if err := checkUnknownAttributes(axes, sel); err != nil {
		return Resolution{}, err
	}

	if v, ok := matchVariant(p, axes, picked); ok {
		if !v.IsAvailable {
			return Resolution{}, pkgerrors.Newf(pkgerrors.CodeValidation, "variant %s is unavailable", v.SKU)
		}
		res.UnitPrice = variantUnitPrice(p, v, base, delta)
		res.PriceDelta = res.UnitPrice.Sub(variants.RoundPrice(base))
		res.SKU = v.SKU
		res.VariantID = v.ID
		if len(v.Images) > 0 {
			res.Image = v.Images[0]
		}
	} else {
		res.UnitPrice = variants.RoundPrice(base.Add(delta))
		res.PriceDelta = res.UnitPrice.Sub(variants.RoundPrice(base))
	}
	if res.UnitPrice.IsNegative() {
		return Resolution{}, pkgerrors.New(pkgerrors.CodeValidation, "selection prices below zero")
	}
	return res, nil
}

// variantUnitPrice honours a variant discount or a price set by hand. A
// variant still at its generated list price follows the product's base price
// plus the selected modifiers, so a product discount reaches it.
func variantUnitPrice(p Product, v variants.Variant, base, delta decimal.Decimal) decimal.Decimal {
	if v.DiscountPrice != nil && v.DiscountPrice.IsPositive() {
		return variants.RoundPrice(*v.DiscountPrice)
	}
	generated, err := variants.ComputeVariantPrice(v.Attributes, p.Attributes, p.Price)
	if err == nil && generated.Equal(variants.RoundPrice(v.Price)) {
		return variants.RoundPrice(base.Add(delta))
	}
	return variants.RoundPrice(v.Price)
}

func checkUnknownAttributes(axes []Axis, sel Selection) error {
	known := make(map[string]struct{}, len(axes))
	for _, axis := range axes {
		if axis.Kind == AxisAttribute {
			known[axis.Name] = struct{}{}
		}
	}
	if len(known) > 0 {
		// Attribute products only take picks through Attributes.
		for _, simple := range []struct {
			kind  AxisKind
			value string
		}{
			{AxisColor, sel.Color},
			{AxisSize, sel.Size},
			{AxisWeight, sel.Weight},
		} {
			if simple.value != "" {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "product takes %s through attributes", simple.kind)
			}
		}
	}
	for name := range sel.Attributes {
		if _, ok := known[name]; !ok {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "product has no attribute %q", name)
		}
	}
	return nil
}

// matchVariant finds the materialized variant pinned by a selection covering
// every attribute axis.
func matchVariant(p Product, axes []Axis, picked map[string]AxisOption) (variants.Variant, bool) {
	if len(p.Variants) == 0 || len(p.Attributes) == 0 || len(picked) != len(axes) {
		return variants.Variant{}, false
	}
	for _, v := range p.Variants {
		if len(v.Attributes) != len(picked) {
			continue
		}
		matched := true
		for _, entry := range v.Attributes {
			opt, ok := picked[entry.AttributeName]
			if !ok || opt.Value != entry.Value || opt.Unit != entry.Unit {
				matched = false
				break
			}
		}
		if matched {
			return v, true
		}
	}
	return variants.Variant{}, false
}
