package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// PromoCode is a discount code redeemable at checkout. Codes are stored
// uppercased.
type PromoCode struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null"`
	Value          decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	MinOrderAmount *decimal.Decimal   `gorm:"column:min_order_amount;type:numeric(12,2)"`
	ValidFrom      *time.Time         `gorm:"column:valid_from"`
	ValidUntil     *time.Time         `gorm:"column:valid_until"`
	MaxUses        *int               `gorm:"column:max_uses"`
	CurrentUses    int                `gorm:"column:current_uses;not null;default:0"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
