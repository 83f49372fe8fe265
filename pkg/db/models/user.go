package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a storefront customer keyed by their Telegram account.
type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TelegramID int64     `gorm:"column:telegram_id;not null;uniqueIndex"`
	Username   *string   `gorm:"column:username"`
	FirstName  string    `gorm:"column:first_name;not null"`
	LastName   *string   `gorm:"column:last_name"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	IsBlocked  bool      `gorm:"column:is_blocked;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
