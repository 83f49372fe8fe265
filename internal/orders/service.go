package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox"
	"github.com/gryadkadev/gryadka-backend/pkg/outbox/payloads"
	"github.com/gryadkadev/gryadka-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	OrderRepo *Repository
	Outbox    outboxEmitter
	DB        txRunner
	Now       func() time.Time
}

// Service exposes order history for customers and lifecycle management for
// the back office.
type Service interface {
	ListOwn(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error)
	GetOwn(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	CancelOwn(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error)
	AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderListDTO, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (OrderDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	orderRepo *Repository
	outbox    outboxEmitter
	db        txRunner
	now       func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		orderRepo: params.OrderRepo,
		outbox:    params.Outbox,
		db:        params.DB,
		now:       now,
	}, nil
}

// ListOwn returns the caller's order history.
func (s *service) ListOwn(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error) {
	list, err := s.orderRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// GetOwn loads one of the caller's orders. Someone else's order reads as
// not found, never as forbidden.
func (s *service) GetOwn(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return ToDTO(order), nil
}

// CancelOwn cancels the caller's order while it is still new. The status
// flip is conditional so a concurrent confirmation wins cleanly.
func (s *service) CancelOwn(ctx context.Context, userID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusNew {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "only new orders can be cancelled")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateStatusWhere(ctx, orderID, enums.OrderStatusCancelled, enums.OrderStatusNew)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already being processed")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: "customer"},
			Version:       1,
			OccurredAt:    s.now(),
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CancelledAt: s.now(),
				Reason:      "cancelled by customer",
			},
		})
	})
	if err != nil {
		return OrderDTO{}, err
	}
	return s.reload(ctx, orderID)
}

// AdminList returns the back-office order listing.
func (s *service) AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderListDTO, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	list, err := s.orderRepo.AdminList(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// AdminGet loads any order by id.
func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	return s.reload(ctx, orderID)
}

// AdminUpdateStatus moves an order along the lifecycle. Illegal jumps are
// rejected before the write, and the conditional update guards against a
// concurrent transition.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (OrderDTO, error) {
	if !next.IsValid() {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !order.Status.CanTransitionTo(next) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			"cannot move order from "+string(order.Status)+" to "+string(next))
	}

	previous := order.Status
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.orderRepo.WithTx(tx).UpdateStatusWhere(ctx, orderID, next, previous)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    s.now(),
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				OldStatus:   previous,
				NewStatus:   next,
			},
		})
	})
	if err != nil {
		return OrderDTO{}, err
	}
	return s.reload(ctx, orderID)
}

// Stats aggregates figures for the back-office dashboard.
func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.orderRepo.Stats(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}
	return stats, nil
}

func (s *service) reload(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return ToDTO(order), nil
}
