package delivery

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates delivery interval persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a delivery repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns active intervals in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.DeliveryInterval, error) {
	var intervals []models.DeliveryInterval
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").Order("time_from ASC").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

// List returns every interval for the back office.
func (r *Repository) List(ctx context.Context) ([]models.DeliveryInterval, error) {
	var intervals []models.DeliveryInterval
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").Order("time_from ASC").
		Find(&intervals).Error
	if err != nil {
		return nil, err
	}
	return intervals, nil
}

// FindByID loads an interval by id.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error) {
	var interval models.DeliveryInterval
	if err := r.db.WithContext(ctx).First(&interval, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interval, nil
}

// Create inserts an interval.
func (r *Repository) Create(ctx context.Context, interval *models.DeliveryInterval) (*models.DeliveryInterval, error) {
	if err := r.db.WithContext(ctx).Create(interval).Error; err != nil {
		return nil, err
	}
	return interval, nil
}

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.DeliveryInterval{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes an interval.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DeliveryInterval{}, "id = ?", id).Error
}
