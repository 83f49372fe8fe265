package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// CartItem is one line of a user's cart. A user holds at most one line per
// (product, unit) pair; adding the same pair again merges quantities.
type CartItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_cart_items_user_product_unit"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_cart_items_user_product_unit"`
	Unit       enums.Unit      `gorm:"column:unit;not null;uniqueIndex:ux_cart_items_user_product_unit"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	PriceAtAdd decimal.Decimal `gorm:"column:price_at_add;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
