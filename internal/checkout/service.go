package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/internal/cart"
	"github.com/gryadkadev/gryadka-backend/internal/orders"
	"github.com/gryadkadev/gryadka-backend/internal/promo"
	"github.com/gryadkadev/gryadka-backend/internal/settings"
	"github.com/gryadkadev/gryadka-backend/internal/users"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type promoResolver interface {
	Resolve(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*promo.ValidationResult, error)
}

type intervalChecker interface {
	EnsureSelectable(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error)
}

type checkoutSettings interface {
	Checkout(ctx context.Context) (settings.Checkout, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	DB        txRunner
	UserRepo  *users.Repository
	CartRepo  *cart.Repository
	OrderRepo *orders.Repository
	PromoRepo *promo.Repository
	Promo     promoResolver
	Intervals intervalChecker
	Settings  checkoutSettings
	Outbox    outboxEmitter
	Now       func() time.Time
}

// Service turns a cart into a placed order.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, dto CreateOrderDTO) (orders.OrderDTO, error)
}

type service struct {
	db        txRunner
	userRepo  *users.Repository
	cartRepo  *cart.Repository
	orderRepo *orders.Repository
	promoRepo *promo.Repository
	promo     promoResolver
	intervals intervalChecker
	settings  checkoutSettings
	outbox    outboxEmitter
	now       func() time.Time
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.PromoRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo repo is required")
	}
	if params.Promo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo service is required")
	}
	if params.Intervals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery service is required")
	}
	if params.Settings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings service is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:        params.DB,
		userRepo:  params.UserRepo,
		cartRepo:  params.CartRepo,
		orderRepo: params.OrderRepo,
		promoRepo: params.PromoRepo,
		promo:     params.Promo,
		intervals: params.Intervals,
		settings:  params.Settings,
		outbox:    params.Outbox,
		now:       now,
	}, nil
}

// CreateOrder prices the cart from its add-time snapshots, recomputes every
// money figure server side and places the order atomically. The cart drain,
// the promo usage bump and the outbox event share the order's transaction.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, dto CreateOrderDTO) (orders.OrderDTO, error) {
	if err := validateInput(dto); err != nil {
		return orders.OrderDTO{}, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.IsBlocked {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked")
	}

	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines, subtotal, err := s.priceCart(ctx, items)
	if err != nil {
		return orders.OrderDTO{}, err
	}

	checkoutSettings, err := s.settings.Checkout(ctx)
	if err != nil {
		return orders.OrderDTO{}, err
	}
	if checkoutSettings.MinOrderAmount.IsPositive() && subtotal.LessThan(checkoutSettings.MinOrderAmount) {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order subtotal is below the minimum of %s", checkoutSettings.MinOrderAmount.StringFixed(2)))
	}

	now := s.now()
	promoResult, err := s.promo.Resolve(ctx, dto.PromoCode, subtotal, now)
	if err != nil {
		return orders.OrderDTO{}, err
	}

	deliveryCost := s.deliveryCost(dto.DeliveryType, subtotal, checkoutSettings)

	if dto.DeliveryIntervalID != nil {
		if _, err := s.intervals.EnsureSelectable(ctx, *dto.DeliveryIntervalID); err != nil {
			return orders.OrderDTO{}, err
		}
	}

	total := subtotal.Add(deliveryCost).Sub(promoResult.Discount)

	order := &models.Order{
		ID:                 uuid.New(),
		UserID:             user.ID,
		CustomerName:       strings.TrimSpace(dto.CustomerName),
		Phone:              strings.TrimSpace(dto.Phone),
		DeliveryType:       dto.DeliveryType,
		Address:            dto.Address,
		District:           dto.District,
		DeliveryIntervalID: dto.DeliveryIntervalID,
		DeliveryDate:       dto.DeliveryDate,
		PaymentType:        dto.PaymentType,
		Subtotal:           subtotal,
		DeliveryCost:       deliveryCost,
		DiscountAmount:     promoResult.Discount,
		Total:              total,
		Comment:            dto.Comment,
		Status:             enums.OrderStatusNew,
	}
	if promoResult.Promo != nil {
		order.PromoCodeID = &promoResult.Promo.ID
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}
		order.OrderNumber = number

		txOrders := s.orderRepo.WithTx(tx)
		if _, err := txOrders.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := txOrders.CreateItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := s.cartRepo.WithTx(tx).Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		if promoResult.Promo != nil {
			affected, err := s.promoRepo.WithTx(tx).IncrementUsage(ctx, promoResult.Promo.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply promo code")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict, "promo code usage limit reached")
			}
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: user.ID, TelegramID: user.TelegramID, Role: "customer"},
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderCreatedEvent{
				OrderID:      order.ID,
				OrderNumber:  order.OrderNumber,
				UserID:       user.ID,
				TelegramID:   user.TelegramID,
				DeliveryType: order.DeliveryType,
				PaymentType:  order.PaymentType,
				ItemCount:    len(lines),
				Subtotal:     order.Subtotal,
				Total:        order.Total,
			},
		})
	})
	if err != nil {
		return orders.OrderDTO{}, err
	}

	placed, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return orders.ToDTO(placed), nil
}

// priceCart builds order lines from the price each item carried when it was
// added to the cart. Live catalog prices are not consulted; price_at_add is
// the contract with the customer. A product that vanished or went inactive
// still fails the checkout instead of silently shrinking the order.
func (s *service) priceCart(ctx context.Context, items []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.cartRepo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	lines := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "a cart item is no longer available")
		}
		lineTotal := item.Quantity.Mul(item.PriceAtAdd).Round(2)
		productID := product.ID
		lines = append(lines, models.OrderItem{
			ID:          uuid.New(),
			ProductID:   &productID,
			ProductName: product.Name,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtAdd,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return lines, subtotal, nil
}

// deliveryCost is zero for pickup and for courier orders at or over the
// free delivery threshold. An unset threshold reads as zero, so every order
// clears it and ships free.
func (s *service) deliveryCost(deliveryType enums.DeliveryType, subtotal decimal.Decimal, snapshot settings.Checkout) decimal.Decimal {
	if deliveryType == enums.DeliveryPickup {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(snapshot.FreeDeliveryFrom) {
		return decimal.Zero
	}
	return snapshot.DeliveryCost
}

func validateInput(dto CreateOrderDTO) error {
	if strings.TrimSpace(dto.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(dto.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if !dto.DeliveryType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery type")
	}
	if !dto.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type")
	}
	if dto.DeliveryType == enums.DeliveryCourier {
		if dto.Address == nil || strings.TrimSpace(*dto.Address) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
		}
	}
	return nil
}
