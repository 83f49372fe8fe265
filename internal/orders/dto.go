package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
)

// ItemDTO is one snapshotted order line.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Unit        enums.Unit      `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the public shape of an order.
type OrderDTO struct {
	ID                 uuid.UUID          `json:"id"`
	OrderNumber        string             `json:"order_number"`
	UserID             uuid.UUID          `json:"user_id"`
	CustomerName       string             `json:"customer_name"`
	Phone              string             `json:"phone"`
	DeliveryType       enums.DeliveryType `json:"delivery_type"`
	Address            *string            `json:"address,omitempty"`
	District           *string            `json:"district,omitempty"`
	DeliveryIntervalID *uuid.UUID         `json:"delivery_interval_id,omitempty"`
	DeliveryDate       *time.Time         `json:"delivery_date,omitempty"`
	PaymentType        enums.PaymentType  `json:"payment_type"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	DeliveryCost       decimal.Decimal    `json:"delivery_cost"`
	DiscountAmount     decimal.Decimal    `json:"discount_amount"`
	Total              decimal.Decimal    `json:"total"`
	Comment            *string            `json:"comment,omitempty"`
	Status             enums.OrderStatus  `json:"status"`
	Items              []ItemDTO          `json:"items,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// OrderListDTO is one page of an order listing.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// AdminFilters narrows the back-office order listing.
type AdminFilters struct {
	Status *enums.OrderStatus
}

// StatusCount is one row of the status breakdown.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// StatsDTO aggregates order and revenue figures for the back office.
// Cancelled orders are excluded from revenue.
type StatsDTO struct {
	OrdersTotal   int64           `json:"orders_total"`
	RevenueTotal  decimal.Decimal `json:"revenue_total"`
	OrdersToday   int64           `json:"orders_today"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	OrdersWeek    int64           `json:"orders_week"`
	RevenueWeek   decimal.Decimal `json:"revenue_week"`
	StatusCounts []StatusCount   `json:"status_counts"`
}

// ToDTO maps an order model with its items to the public shape.
func ToDTO(order *models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return OrderDTO{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		UserID:             order.UserID,
		CustomerName:       order.CustomerName,
		Phone:              order.Phone,
		DeliveryType:       order.DeliveryType,
		Address:            order.Address,
		District:           order.District,
		DeliveryIntervalID: order.DeliveryIntervalID,
		DeliveryDate:       order.DeliveryDate,
		PaymentType:        order.PaymentType,
		Subtotal:           order.Subtotal,
		DeliveryCost:       order.DeliveryCost,
		DiscountAmount:     order.DiscountAmount,
		Total:              order.Total,
		Comment:            order.Comment,
		Status:             order.Status,
		Items:              items,
		CreatedAt:          order.CreatedAt,
	}
}
