package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the user or refreshes their profile fields keyed by
// telegram_id, and returns the persisted row.
func (r *Repository) Upsert(ctx context.Context, dto SyncUserDTO) (*models.User, error) {
	user := models.User{
		TelegramID: dto.TelegramID,
		Username:   dto.Username,
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "first_name", "last_name", "updated_at"}),
		}).
		Create(&user).Error
	if err != nil {
		return nil, err
	}
	return r.FindByTelegramID(ctx, dto.TelegramID)
}

// FindByTelegramID loads a user by their Telegram account id.
func (r *Repository) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetBlocked flips the blocked flag for a user.
func (r *Repository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_blocked": blocked, "updated_at": time.Now().UTC()}).Error
}

// SetAdmin flips the admin flag for a user.
func (r *Repository) SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_admin": admin, "updated_at": time.Now().UTC()}).Error
}

// List returns users newest first with cursor pagination. Query matches
// username and names case-insensitively.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserListDTO, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&models.User{})
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(COALESCE(username, '')) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(COALESCE(last_name, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filters.BlockedOnly {
		query = query.Where("is_blocked = ?", true)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var records []models.User
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

	items := make([]UserDTO, 0, len(records))
	for i := range records {
		items = append(items, ToDTO(&records[i]))
	}
	return &UserListDTO{Users: items, NextCursor: nextCursor}, nil
}
