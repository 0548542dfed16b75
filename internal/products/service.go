package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Saymandev/samucha-storefront/internal/variants"
	"github.com/Saymandev/samucha-storefront/pkg/db"
	"github.com/Saymandev/samucha-storefront/pkg/db/models"
	pkgerrors "github.com/Saymandev/samucha-storefront/pkg/errors"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
	"github.com/Saymandev/samucha-storefront/pkg/metrics"
	"github.com/Saymandev/samucha-storefront/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads and the admin attribute/variant surface.
type Service interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	UpdateAttributes(ctx context.Context, productID string, edit AttributeEdit) (*Product, error)
	RegenerateVariants(ctx context.Context, productID string) (*RegenerateResult, error)
	UpdateVariant(ctx context.Context, productID, variantID string, input UpdateVariantInput) (*variants.Variant, error)
	PreviewCombinations(ctx context.Context, productID string) (*Preview, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ID               string
	Name             string
	Price            decimal.Decimal
	DiscountPrice    *decimal.Decimal
	MinOrderQuantity int
	MaxOrderQuantity int
	Images           []string
	ColorVariants    []SimpleVariant
	SizeVariants     []SimpleVariant
	WeightVariants   []SimpleVariant
	Attributes       []variants.AttributeDefinition
}

// ListProductsInput selects a catalog page.
type ListProductsInput struct {
	pagination.Params
	IncludeInactive bool
}

// ProductPage is one keyset page of the catalog.
type ProductPage struct {
	Items      []Product `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// UpdateVariantInput holds optional admin edits to a variant.
type UpdateVariantInput struct {
	Price              *decimal.Decimal
	DiscountPrice      *decimal.Decimal
	ClearDiscountPrice bool
	Stock              *int
	IsAvailable        *bool
	Images             *[]string
}

// RegenerateResult reports a regeneration run.
type RegenerateResult struct {
	Product   *Product `json:"product"`
	Preserved int      `json:"preserved"`
	Created   int      `json:"created"`
	Removed   int      `json:"removed"`
}

// Preview is the combination count the admin sees before generating.
type Preview struct {
	ProductID    string `json:"product_id"`
	Combinations int    `json:"combinations"`
	Existing     int    `json:"existing"`
}

// AttributeEdit transforms a product's attribute definitions.
type AttributeEdit func([]variants.AttributeDefinition) ([]variants.AttributeDefinition, error)

// ReplaceAttributes rebuilds the configuration from defs, validating each one.
func ReplaceAttributes(defs []variants.AttributeDefinition) AttributeEdit {
	return func([]variants.AttributeDefinition) ([]variants.AttributeDefinition, error) {
		out := []variants.AttributeDefinition{}
		for _, def := range defs {
			var err error
			if out, err = variants.AddAttribute(out, def); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

// AddAttributeValue appends a value to the named attribute.
func AddAttributeValue(name string, value variants.AttributeValue) AttributeEdit {
	return func(defs []variants.AttributeDefinition) ([]variants.AttributeDefinition, error) {
		return variants.AddValueToAttribute(defs, name, value)
	}
}

// RemoveAttributeValue drops a value from the named attribute.
func RemoveAttributeValue(name, value string) AttributeEdit {
	return func(defs []variants.AttributeDefinition) ([]variants.AttributeDefinition, error) {
		return variants.RemoveValueFromAttribute(defs, name, value), nil
	}
}

// RemoveAttribute drops the named attribute.
func RemoveAttribute(name string) AttributeEdit {
	return func(defs []variants.AttributeDefinition) ([]variants.AttributeDefinition, error) {
		return variants.RemoveAttribute(defs, name), nil
	}
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	expander *variants.Expander
	metrics  *metrics.StorefrontMetrics
	logg     *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, expander *variants.Expander, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if expander == nil {
		return nil, fmt.Errorf("variant expander required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		expander: expander,
		metrics:  m,
		logg:     logg,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return s.load(ctx, s.repo, productID)
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Limit)
	rows, err := s.repo.List(ctx, pagination.LimitWithBuffer(input.Limit), cursor, !input.IncludeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page := &ProductPage{Items: make([]Product, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		p, err := fromModel(&rows[i])
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode product")
		}
		page.Items = append(page.Items, *p)
	}
	return page, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	attrs, err := ReplaceAttributes(input.Attributes)(nil)
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = uuid.NewString()
	}
	minQty := input.MinOrderQuantity
	if minQty < 1 {
		minQty = 1
	}

	row, err := toModel(Product{
		ID:               id,
		Name:             strings.TrimSpace(input.Name),
		Price:            variants.RoundPrice(input.Price),
		DiscountPrice:    input.DiscountPrice,
		MinOrderQuantity: minQty,
		MaxOrderQuantity: input.MaxOrderQuantity,
		Images:           input.Images,
		ColorVariants:    input.ColorVariants,
		SizeVariants:     input.SizeVariants,
		WeightVariants:   input.WeightVariants,
		Attributes:       attrs,
		HasVariants:      len(input.ColorVariants)+len(input.SizeVariants)+len(input.WeightVariants) > 0,
		IsActive:         true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode product")
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.load(ctx, s.repo, id)
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.DiscountPrice != nil && (input.DiscountPrice.IsNegative() || !input.DiscountPrice.LessThan(input.Price)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_price must be between 0 and price")
	}
	if input.MaxOrderQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_order_quantity cannot be negative")
	}
	if input.MaxOrderQuantity > 0 && input.MaxOrderQuantity < input.MinOrderQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_order_quantity must be at least min_order_quantity")
	}
	return nil
}

func (s *service) UpdateAttributes(ctx context.Context, productID string, edit AttributeEdit) (*Product, error) {
	if edit == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attribute edit required")
	}
	var updated *Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.load(ctx, repo, productID)
		if err != nil {
			return err
		}
		next, err := edit(current.Attributes)
		if err != nil {
			return err
		}
		doc, err := encodeAttributes(next)
		if err != nil {
			return err
		}
		if err := repo.UpdateAttributes(ctx, productID, doc); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update attributes")
		}
		updated, err = s.load(ctx, repo, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) RegenerateVariants(ctx context.Context, productID string) (*RegenerateResult, error) {
	started := time.Now()
	result := &RegenerateResult{}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := s.load(ctx, repo, productID)
		if err != nil {
			return err
		}
		generated, err := s.expander.ExpandVariants(ctx, variants.ExpandInput{
			ProductName: current.Name,
			Definitions: current.Attributes,
			Existing:    current.Variants,
			BasePrice:   current.Price,
		})
		if err != nil {
			return err
		}

		previous := make(map[string]struct{}, len(current.Variants))
		for _, v := range current.Variants {
			previous[v.ID] = struct{}{}
		}
		for _, v := range generated {
			if _, ok := previous[v.ID]; ok {
				result.Preserved++
			} else {
				result.Created++
			}
		}
		result.Removed = len(current.Variants) - result.Preserved

		rows, err := toVariantModels(productID, generated)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode variants")
		}
		if err := repo.ReplaceVariants(ctx, productID, rows); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate variant sku")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace variants")
		}
		result.Product, err = s.load(ctx, repo, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveGeneration(time.Since(started), result.Preserved, result.Created)
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithProductID(ctx, productID), map[string]any{
			"preserved": result.Preserved,
			"created":   result.Created,
			"removed":   result.Removed,
		})
		s.logg.Info(logCtx, "variants regenerated")
	}
	return result, nil
}

func (s *service) UpdateVariant(ctx context.Context, productID, variantID string, input UpdateVariantInput) (*variants.Variant, error) {
	var updated variants.Variant
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindVariant(ctx, productID, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
		}
		current, err := fromVariantModel(*row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode variant")
		}

		applyVariantEdits(&current, input)
		if err := current.Validate(); err != nil {
			return err
		}

		rows, err := toVariantModels(productID, []variants.Variant{current})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode variant")
		}
		if err := repo.SaveVariant(ctx, &rows[0]); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save variant")
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func applyVariantEdits(v *variants.Variant, input UpdateVariantInput) {
	if input.Price != nil {
		v.Price = variants.RoundPrice(*input.Price)
	}
	if input.ClearDiscountPrice {
		v.DiscountPrice = nil
	} else if input.DiscountPrice != nil {
		discount := variants.RoundPrice(*input.DiscountPrice)
		v.DiscountPrice = &discount
	}
	if input.Stock != nil {
		v.Stock = *input.Stock
	}
	if input.IsAvailable != nil {
		v.IsAvailable = *input.IsAvailable
	}
	if input.Images != nil {
		v.Images = nonNilStrings(*input.Images)
	}
}

func (s *service) PreviewCombinations(ctx context.Context, productID string) (*Preview, error) {
	current, err := s.load(ctx, s.repo, productID)
	if err != nil {
		return nil, err
	}
	return &Preview{
		ProductID:    current.ID,
		Combinations: variants.CombinationCount(current.Attributes),
		Existing:     len(current.Variants),
	}, nil
}

func (s *service) load(ctx context.Context, repo *Repository, productID string) (*Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	p, err := fromModel(row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode product")
	}
	return p, nil
}

func encodeAttributes(defs []variants.AttributeDefinition) (models.JSONDocument, error) {
	if defs == nil {
		defs = []variants.AttributeDefinition{}
	}
	doc, err := models.NewJSONDocument(defs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode attributes")
	}
	return doc, nil
}
