package promo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates promo code persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promo repository bound to the provided gorm DB.
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

// FindActiveByCode loads an active promo code matched case-insensitively.
func (r *Repository) FindActiveByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(code)), true).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindByID loads a promo code by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.WithContext(ctx).First(&promo, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &promo, nil
}

// List returns all promo codes newest first.
func (r *Repository) List(ctx context.Context) ([]models.PromoCode, error) {
	var promos []models.PromoCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&promos).Error; err != nil {
		return nil, err
	}
	return promos, nil
}

// Create inserts a promo code.
func (r *Repository) Create(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a promo code.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PromoCode{}, "id = ?", id).Error
}

// IncrementUsage bumps current_uses while the usage cap still holds. Zero
// rows affected means the cap was reached between validation and commit.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", id).
		Updates(map[string]any{
			"current_uses": gorm.Expr("current_uses + 1"),
			"updated_at":   time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
