package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// OrderCreatedEvent signals a new order placed through checkout.
type OrderCreatedEvent struct {
	OrderID      uuid.UUID          `json:"order_id"`
	OrderNumber  string             `json:"order_number"`
	UserID       uuid.UUID          `json:"user_id"`
	TelegramID   int64              `json:"telegram_id"`
	DeliveryType enums.DeliveryType `json:"delivery_type"`
	PaymentType  enums.PaymentType  `json:"payment_type"`
	ItemCount    int                `json:"item_count"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Total        decimal.Decimal    `json:"total"`
}

// OrderStatusChangedEvent is emitted when the back office moves an order
// along the lifecycle.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	OldStatus   enums.OrderStatus `json:"old_status"`
	NewStatus   enums.OrderStatus `json:"new_status"`
}

// OrderCancelledEvent is emitted when a customer cancels a pending order.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason,omitempty"`
}

// SupportMessageSentEvent notifies operators about a new support message.
type SupportMessageSentEvent struct {
	MessageID   uuid.UUID `json:"message_id"`
	UserID      uuid.UUID `json:"user_id"`
	TelegramID  int64     `json:"telegram_id"`
	IsFromAdmin bool      `json:"is_from_admin"`
}
