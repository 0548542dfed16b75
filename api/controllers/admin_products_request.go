package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Saymandev/samucha-storefront/api/validators"
	productsvc "github.com/Saymandev/samucha-storefront/internal/products"
	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/Saymandev/samucha-storefront/pkg/enums"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
)

type attributeValueRequest struct {
	Value         string            `json:"value" validate:"required,max=64"`
	DisplayName   map[string]string `json:"display_name,omitempty"`
	Unit          string            `json:"unit,omitempty" validate:"omitempty,max=16"`
	ColorCode     string            `json:"color_code,omitempty" validate:"omitempty,max=16"`
	ImageURL      string            `json:"image_url,omitempty" validate:"omitempty,url"`
	PriceModifier decimal.Decimal   `json:"price_modifier"`
	StockModifier int               `json:"stock_modifier"`
}

type attributeRequest struct {
	Name         string                  `json:"name" validate:"required,max=64"`
	Type         string                  `json:"type,omitempty"`
	DisplayName  map[string]string       `json:"display_name,omitempty"`
	IsRequired   bool                    `json:"is_required"`
	AffectsPrice bool                    `json:"affects_price"`
	AffectsStock bool                    `json:"affects_stock"`
	AffectsImage bool                    `json:"affects_image"`
	Values       []attributeValueRequest `json:"values" validate:"dive"`
}

type replaceAttributesRequest struct {
	Attributes []attributeRequest `json:"attributes" validate:"dive"`
}

type simpleVariantRequest struct {
	Name          string          `json:"name" validate:"required,max=64"`
	Unit          string          `json:"unit,omitempty" validate:"omitempty,max=16"`
	ColorCode     string          `json:"color_code,omitempty" validate:"omitempty,max=16"`
	Image         string          `json:"image,omitempty" validate:"omitempty,url"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

type createProductRequest struct {
	ID               string                 `json:"id,omitempty" validate:"omitempty,max=64"`
	Name             string                 `json:"name" validate:"required,max=200"`
	Price            decimal.Decimal        `json:"price"`
	DiscountPrice    *decimal.Decimal       `json:"discount_price,omitempty"`
	MinOrderQuantity int                    `json:"min_order_quantity" validate:"gte=0"`
	MaxOrderQuantity int                    `json:"max_order_quantity" validate:"gte=0"`
	Images           []string               `json:"images,omitempty" validate:"omitempty,dive,url"`
	ColorVariants    []simpleVariantRequest `json:"color_variants,omitempty" validate:"omitempty,dive"`
	SizeVariants     []simpleVariantRequest `json:"size_variants,omitempty" validate:"omitempty,dive"`
	WeightVariants   []simpleVariantRequest `json:"weight_variants,omitempty" validate:"omitempty,dive"`
	Attributes       []attributeRequest     `json:"attributes,omitempty" validate:"omitempty,dive"`
}

type updateVariantRequest struct {
	Price              *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice      *decimal.Decimal `json:"discount_price,omitempty"`
	ClearDiscountPrice bool             `json:"clear_discount_price,omitempty"`
	Stock              *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsAvailable        *bool            `json:"is_available,omitempty"`
	Images             *[]string        `json:"images,omitempty"`
}

func (r attributeValueRequest) toValue() variants.AttributeValue {
	return variants.AttributeValue{
		Value:         validators.SanitizeString(r.Value, 64),
		DisplayName:   variants.LocalizedText(r.DisplayName),
		Unit:          strings.TrimSpace(r.Unit),
		ColorCode:     strings.TrimSpace(r.ColorCode),
		ImageURL:      strings.TrimSpace(r.ImageURL),
		PriceModifier: r.PriceModifier,
		StockModifier: r.StockModifier,
	}
}

func (r attributeRequest) toDefinition() (variants.AttributeDefinition, error) {
	attrType := enums.AttributeTypeCustom
	if raw := strings.TrimSpace(r.Type); raw != "" {
		parsed, err := enums.ParseAttributeType(raw)
		if err != nil {
			return variants.AttributeDefinition{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid attribute type")
		}
		attrType = parsed
	}
	values := make([]variants.AttributeValue, 0, len(r.Values))
	for _, v := range r.Values {
		values = append(values, v.toValue())
	}
	return variants.AttributeDefinition{
		Name:         validators.SanitizeString(r.Name, 64),
		Type:         attrType,
		DisplayName:  variants.LocalizedText(r.DisplayName),
		IsRequired:   r.IsRequired,
		AffectsPrice: r.AffectsPrice,
		AffectsStock: r.AffectsStock,
		AffectsImage: r.AffectsImage,
		Values:       values,
	}, nil
}

func toDefinitions(reqs []attributeRequest) ([]variants.AttributeDefinition, error) {
	defs := make([]variants.AttributeDefinition, 0, len(reqs))
	for _, req := range reqs {
		def, err := req.toDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func toSimpleVariants(reqs []simpleVariantRequest) []productsvc.SimpleVariant {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]productsvc.SimpleVariant, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, productsvc.SimpleVariant{
			Name:          validators.SanitizeString(req.Name, 64),
			Unit:          strings.TrimSpace(req.Unit),
			ColorCode:     strings.TrimSpace(req.ColorCode),
			Image:         strings.TrimSpace(req.Image),
			PriceModifier: req.PriceModifier,
		})
	}
	return out
}

func (r createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	attrs, err := toDefinitions(r.Attributes)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}
	return productsvc.CreateProductInput{
		ID:               strings.TrimSpace(r.ID),
		Name:             validators.SanitizeString(r.Name, 200),
		Price:            r.Price,
		DiscountPrice:    r.DiscountPrice,
		MinOrderQuantity: r.MinOrderQuantity,
		MaxOrderQuantity: r.MaxOrderQuantity,
		Images:           r.Images,
		ColorVariants:    toSimpleVariants(r.ColorVariants),
		SizeVariants:     toSimpleVariants(r.SizeVariants),
		WeightVariants:   toSimpleVariants(r.WeightVariants),
		Attributes:       attrs,
	}, nil
}

func (r updateVariantRequest) toUpdateInput() (productsvc.UpdateVariantInput, error) {
	if r.ClearDiscountPrice && r.DiscountPrice != nil {
		return productsvc.UpdateVariantInput{}, pkgerrors.New(pkgerrors.CodeValidation, "discount_price and clear_discount_price are mutually exclusive")
	}
	return productsvc.UpdateVariantInput{
		Price:              r.Price,
		DiscountPrice:      r.DiscountPrice,
		ClearDiscountPrice: r.ClearDiscountPrice,
		Stock:              r.Stock,
		IsAvailable:        r.IsAvailable,
		Images:             r.Images,
	}, nil
}
