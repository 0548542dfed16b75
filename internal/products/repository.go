package product

import (
	"context"

	"github.com/Saymandev/samucha-storefront/pkg/db/models"
	"github.com/Saymandev/samucha-storefront/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists catalog products and their materialized variants.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the product together with any variants it carries.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads the product with its variants in position order.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns up to limit products newest first, starting after cursor.
// Variants are not loaded.
func (r *Repository) List(ctx context.Context, limit int, cursor *pagination.Cursor, activeOnly bool) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Product
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateAttributes stores a new attribute configuration for the product.
func (r *Repository) UpdateAttributes(ctx context.Context, id string, attributes models.JSONDocument) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("attributes", attributes).Error
}

// ReplaceVariants swaps the product's variant set and updates has_variants.
func (r *Repository) ReplaceVariants(ctx context.Context, productID string, rows []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("has_variants", len(rows) > 0).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// FindVariant loads one variant scoped to its product.
func (r *Repository) FindVariant(ctx context.Context, productID, variantID string) (*models.ProductVariant, error) {
	var row models.ProductVariant
	if err := r.db.WithContext(ctx).
		First(&row, "product_id = ? AND id = ?", productID, variantID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SaveVariant persists administrative edits to a variant.
func (r *Repository) SaveVariant(ctx context.Context, row *models.ProductVariant) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("product_id = ? AND id = ?", row.ProductID, row.ID).
		Updates(map[string]any{
			"price":          row.Price,
			"discount_price": row.DiscountPrice,
			"stock":          row.Stock,
			"images":         row.Images,
			"is_available":   row.IsAvailable,
		}).Error
}
