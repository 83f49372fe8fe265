package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// AddItemDTO carries input for adding a product to the cart.
type AddItemDTO struct {
	ProductID uuid.UUID
	Unit      enums.Unit
	Quantity  decimal.Decimal
}

// LineDTO is one cart line priced live at read time.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    *string         `json:"image_url,omitempty"`
	Unit        enums.Unit      `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PriceAtAdd  decimal.Decimal `json:"price_at_add"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CartDTO is the full cart with its live subtotal.
type CartDTO struct {
	Items    []LineDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
