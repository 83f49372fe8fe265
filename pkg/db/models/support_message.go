package models

import (
	"time"

	"github.com/google/uuid"
)

// SupportMessage is one message in a user's support thread.
type SupportMessage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Text        string    `gorm:"column:text;not null"`
	IsFromAdmin bool      `gorm:"column:is_from_admin;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
