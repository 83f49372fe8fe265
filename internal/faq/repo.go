package faq

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates FAQ persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a FAQ repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns the published items in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.FAQItem, error) {
	var items []models.FAQItem
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// List returns every item for the back office.
func (r *Repository) List(ctx context.Context) ([]models.FAQItem, error) {
	var items []models.FAQItem
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads one item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FAQItem, error) {
	var item models.FAQItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new item.
func (r *Repository) Create(ctx context.Context, item *models.FAQItem) (*models.FAQItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies column updates to an item.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.FAQItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FAQItem{}, "id = ?", id).Error
}
