package settings

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every setting row keyed by name.
func (r *Repository) GetAll(ctx context.Context) (map[string]models.Setting, error) {
	var rows []models.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]models.Setting, len(rows))
	for _, row := range rows {
		result[row.Key] = row
	}
	return result, nil
}

// Get loads one setting by key.
func (r *Repository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var row models.Setting
	if err := r.db.WithContext(ctx).First(&row, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes a setting value, inserting the key when missing.
func (r *Repository) Upsert(ctx context.Context, key, value string, description *string) error {
	row := models.Setting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now().UTC(),
	}
	assignments := []string{"value", "updated_at"}
	if description != nil {
		assignments = append(assignments, "description")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns(assignments),
		}).
		Create(&row).Error
}
