package messages

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
)

// Repository encapsulates support message persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a messages repository bound to the provided gorm DB.
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

// Create inserts a message.
func (r *Repository) Create(ctx context.Context, message *models.SupportMessage) (*models.SupportMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// ListThread returns a user's messages oldest first.
func (r *Repository) ListThread(ctx context.Context, userID uuid.UUID) ([]models.SupportMessage, error) {
	var thread []models.SupportMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&thread).Error
	if err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns the latest message of every thread, newest thread
// first, for the back-office inbox.
func (r *Repository) ListThreads(ctx context.Context) ([]models.SupportMessage, error) {
	var latest []models.SupportMessage
	err := r.db.WithContext(ctx).
		Raw(`
SELECT sm.* FROM support_messages sm
JOIN (
  SELECT user_id, MAX(created_at) AS last_at
  FROM support_messages
  GROUP BY user_id
) t ON t.user_id = sm.user_id AND t.last_at = sm.created_at
ORDER BY sm.created_at DESC`).
		Scan(&latest).Error
	if err != nil {
		return nil, err
	}
	return latest, nil
}
