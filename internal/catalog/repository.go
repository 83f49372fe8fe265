package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListCategories returns categories ordered by sort_order then name.
func (r *Repository) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := query.Order("sort_order ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindCategoryByID loads a category by id.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory applies the provided column updates.
func (r *Repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteCategory removes a category row.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// CountProductsInCategory reports how many products reference the category.
func (r *Repository) CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// ListProducts returns products newest first with cursor pagination.
func (r *Repository) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductListDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Images")
	if !filters.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Badge != nil {
		query = query.Where("badge = ?", *filters.Badge)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.Product
	err = query.
		Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]ProductDTO, 0, len(records))
	for i := range records {
		items = append(items, ToProductDTO(&records[i]))
	}
	return &ProductListDTO{Products: items, NextCursor: nextCursor}, nil
}

// FindProductByID loads a product with its gallery images.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, created_at ASC") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies the provided column updates.
func (r *Repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteProduct removes a product row.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// AdjustStock shifts stock_quantity by delta for tracked products. Rows with
// null stock are untracked and left alone.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity IS NOT NULL AND stock_quantity + ? >= 0", id, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	return result.RowsAffected, result.Error
}

// BulkAdjustCategoryPrices scales every non-null unit price in a category by
// the given percentage (e.g. 10 raises prices by 10%).
func (r *Repository) BulkAdjustCategoryPrices(ctx context.Context, categoryID uuid.UUID, percent decimal.Decimal) (int64, error) {
	factor := decimal.NewFromInt(1).Add(percent.Div(decimal.NewFromInt(100)))
	updates := map[string]any{
		"price_kg":      gorm.Expr("ROUND(price_kg * ?, 2)", factor),
		"price_piece":   gorm.Expr("ROUND(price_piece * ?, 2)", factor),
		"price_package": gorm.Expr("ROUND(price_package * ?, 2)", factor),
		"price_box":     gorm.Expr("ROUND(price_box * ?, 2)", factor),
		"price_multi":   gorm.Expr("ROUND(price_multi * ?, 2)", factor),
	}
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// AttachImage adds a gallery image to a product.
func (r *Repository) AttachImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// DetachImage removes a gallery image owned by the product.
func (r *Repository) DetachImage(ctx context.Context, productID, imageID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&models.ProductImage{})
	return result.RowsAffected, result.Error
}
