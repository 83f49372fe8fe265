package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a product saved by a user.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_favorites_user_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_favorites_user_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
