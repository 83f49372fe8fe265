package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// CreateOrderDTO carries the checkout form. Money figures are never taken
// from the client; they are recomputed from live catalog prices.
type CreateOrderDTO struct {
	CustomerName       string             `json:"customer_name" validate:"required"`
	Phone              string             `json:"phone" validate:"required"`
	DeliveryType       enums.DeliveryType `json:"delivery_type" validate:"required"`
	Address            *string            `json:"address,omitempty"`
	District           *string            `json:"district,omitempty"`
	DeliveryIntervalID *uuid.UUID         `json:"delivery_interval_id,omitempty"`
	DeliveryDate       *time.Time         `json:"delivery_date,omitempty"`
	PaymentType        enums.PaymentType  `json:"payment_type" validate:"required"`
	PromoCode          string             `json:"promo_code,omitempty"`
	Comment            *string            `json:"comment,omitempty"`
}
