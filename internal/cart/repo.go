package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
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

// AddOrMerge inserts a cart line; an existing (user, product, unit) line has
// its quantity increased instead. price_at_add sticks to the first insert.
func (r *Repository) AddOrMerge(ctx context.Context, userID, productID uuid.UUID, unit enums.Unit, quantity, priceAtAdd decimal.Decimal) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Exec(`
INSERT INTO cart_items (id, user_id, product_id, unit, quantity, price_at_add, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, product_id, unit)
DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at`,
		uuid.New(), userID, productID, unit, quantity, priceAtAdd, now, now,
	).Error
}

// ListByUser returns the user's cart lines oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByIDForUser loads one cart line owned by the user.
func (r *Repository) FindByIDForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity overwrites the quantity of a line owned by the user.
func (r *Repository) UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity decimal.Decimal) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}

// Remove deletes a line owned by the user.
func (r *Repository) Remove(ctx context.Context, itemID, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// Clear drops every line in the user's cart.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// ProductsByIDs loads the products referenced by cart lines keyed by id.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	result := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}
