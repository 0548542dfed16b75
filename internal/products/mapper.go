package product

import (
	"fmt"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/Saymandev/samucha-storefront/pkg/db/models"
)

func toModel(p Product) (*models.Product, error) {
	row := &models.Product{
		ID:               p.ID,
		Name:             p.Name,
		Price:            p.Price,
		DiscountPrice:    p.DiscountPrice,
		MinOrderQuantity: p.MinOrderQuantity,
		MaxOrderQuantity: p.MaxOrderQuantity,
		HasVariants:      p.HasVariants,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	docs := []struct {
		dest  *models.JSONDocument
		value any
		name  string
	}{
		{&row.Images, nonNilStrings(p.Images), "images"},
		{&row.ColorVariants, p.ColorVariants, "color_variants"},
		{&row.SizeVariants, p.SizeVariants, "size_variants"},
		{&row.WeightVariants, p.WeightVariants, "weight_variants"},
		{&row.Attributes, p.Attributes, "attributes"},
	}
	for _, doc := range docs {
		encoded, err := models.NewJSONDocument(doc.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.name, err)
		}
		*doc.dest = encoded
	}

	variantRows, err := toVariantModels(p.ID, p.Variants)
	if err != nil {
		return nil, err
	}
	row.Variants = variantRows
	return row, nil
}

func toVariantModels(productID string, vs []variants.Variant) ([]models.ProductVariant, error) {
	rows := make([]models.ProductVariant, 0, len(vs))
	for i, v := range vs {
		attrs, err := models.NewJSONDocument(v.Attributes)
		if err != nil {
			return nil, fmt.Errorf("variant %s attributes: %w", v.ID, err)
		}
		images, err := models.NewJSONDocument(nonNilStrings(v.Images))
		if err != nil {
			return nil, fmt.Errorf("variant %s images: %w", v.ID, err)
		}
		rows = append(rows, models.ProductVariant{
			ID:            v.ID,
			ProductID:     productID,
			SKU:           v.SKU,
			Position:      i,
			Attributes:    attrs,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
			Stock:         v.Stock,
			Images:        images,
			IsAvailable:   v.IsAvailable,
		})
	}
	return rows, nil
}

func fromModel(row *models.Product) (*Product, error) {
	p := &Product{
		ID:               row.ID,
		Name:             row.Name,
		Price:            row.Price,
		DiscountPrice:    row.DiscountPrice,
		MinOrderQuantity: row.MinOrderQuantity,
		MaxOrderQuantity: row.MaxOrderQuantity,
		HasVariants:      row.HasVariants,
		IsActive:         row.IsActive,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	docs := []struct {
		doc  models.JSONDocument
		dest any
		name string
	}{
		{row.Images, &p.Images, "images"},
		{row.ColorVariants, &p.ColorVariants, "color_variants"},
		{row.SizeVariants, &p.SizeVariants, "size_variants"},
		{row.WeightVariants, &p.WeightVariants, "weight_variants"},
		{row.Attributes, &p.Attributes, "attributes"},
	}
	for _, d := range docs {
		if err := d.doc.Decode(d.dest); err != nil {
			return nil, fmt.Errorf("product %s %s: %w", row.ID, d.name, err)
		}
	}
	p.Images = nonNilStrings(p.Images)

	p.Variants = make([]variants.Variant, 0, len(row.Variants))
	for _, vr := range row.Variants {
		v, err := fromVariantModel(vr)
		if err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	return p, nil
}

func fromVariantModel(row models.ProductVariant) (variants.Variant, error) {
	v := variants.Variant{
		ID:            row.ID,
		SKU:           row.SKU,
		Price:         row.Price,
		DiscountPrice: row.DiscountPrice,
		Stock:         row.Stock,
		IsAvailable:   row.IsAvailable,
	}
	if err := row.Attributes.Decode(&v.Attributes); err != nil {
		return variants.Variant{}, fmt.Errorf("variant %s attributes: %w", row.ID, err)
	}
	if err := row.Images.Decode(&v.Images); err != nil {
		return variants.Variant{}, fmt.Errorf("variant %s images: %w", row.ID, err)
	}
	v.Images = nonNilStrings(v.Images)
	return v, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
