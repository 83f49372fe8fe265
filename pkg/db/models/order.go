package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// Order is a placed order with its money figures frozen at checkout time.
type Order struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        string             `gorm:"column:order_number;not null;uniqueIndex"`
	UserID             uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerName       string             `gorm:"column:customer_name;not null"`
	Phone              string             `gorm:"column:phone;not null"`
	DeliveryType       enums.DeliveryType `gorm:"column:delivery_type;not null"`
	Address            *string            `gorm:"column:address"`
	District           *string            `gorm:"column:district"`
	DeliveryIntervalID *uuid.UUID         `gorm:"column:delivery_interval_id;type:uuid"`
	DeliveryDate       *time.Time         `gorm:"column:delivery_date"`
	PaymentType        enums.PaymentType  `gorm:"column:payment_type;not null"`
	Subtotal           decimal.Decimal    `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryCost       decimal.Decimal    `gorm:"column:delivery_cost;type:numeric(12,2);not null"`
	DiscountAmount     decimal.Decimal    `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	Total              decimal.Decimal    `gorm:"column:total;type:numeric(12,2);not null"`
	PromoCodeID        *uuid.UUID         `gorm:"column:promo_code_id;type:uuid"`
	Comment            *string            `gorm:"column:comment"`
	Status             enums.OrderStatus  `gorm:"column:status;not null;default:'new'"`
	Items              []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
