package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts a favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (id, user_id, product_id) VALUES (?, ?, ?) ON CONFLICT (user_id, product_id) DO NOTHING`,
			uuid.New(), userID, productID).
		Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	return result.RowsAffected, result.Error
}

// Exists reports whether the user has favorited the product.
func (r *Repository) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// ListProductIDs returns the ids of active favorited products, newest first.
func (r *Repository) ListProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("favorites f").
		Select("f.product_id").
		Joins("JOIN products p ON p.id = f.product_id").
		Where("f.user_id = ? AND p.is_active = ?", userID, true).
		Order("f.created_at DESC").
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListProducts returns the active favorited products, newest favorite first.
func (r *Repository) ListProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN favorites f ON f.product_id = products.id").
		Where("f.user_id = ? AND products.is_active = ?", userID, true).
		Order("f.created_at DESC").
		Preload("Images").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
