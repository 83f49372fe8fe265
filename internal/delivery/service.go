package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// IntervalDTO is a delivery slot with its current selectability.
type IntervalDTO struct {
	ID            uuid.UUID `json:"id"`
	TimeFrom      string    `json:"time_from"`
	TimeTo        string    `json:"time_to"`
	AvailableFrom string    `json:"available_from"`
	AvailableTo   string    `json:"available_to"`
	SortOrder     int       `json:"sort_order"`
	IsActive      bool      `json:"is_active"`
	SelectableNow bool      `json:"selectable_now"`
}

// CreateIntervalDTO carries admin input for a new slot.
type CreateIntervalDTO struct {
	TimeFrom      string
	TimeTo        string
	AvailableFrom string
	AvailableTo   string
	SortOrder     int
}

// UpdateIntervalDTO carries partial admin updates; nil fields are untouched.
type UpdateIntervalDTO struct {
	TimeFrom      *string
	TimeTo        *string
	AvailableFrom *string
	AvailableTo   *string
	SortOrder     *int
	IsActive      *bool
}

// ServiceParams groups dependencies for the delivery service.
type ServiceParams struct {
	DeliveryRepo *Repository
	Now          func() time.Time
}

// Service exposes delivery slot reads and back-office management.
type Service interface {
	ListActive(ctx context.Context) ([]IntervalDTO, error)
	List(ctx context.Context) ([]IntervalDTO, error)
	EnsureSelectable(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error)
	Create(ctx context.Context, dto CreateIntervalDTO) (IntervalDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateIntervalDTO) (IntervalDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	deliveryRepo *Repository
	now          func() time.Time
}

// NewService builds a delivery service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DeliveryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery repo is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{deliveryRepo: params.DeliveryRepo, now: now}, nil
}

// ListActive returns active slots, each flagged with selectable_now.
func (s *service) ListActive(ctx context.Context) ([]IntervalDTO, error) {
	intervals, err := s.deliveryRepo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery intervals")
	}
	return s.toDTOs(intervals), nil
}

// List returns every slot for the back office.
func (s *service) List(ctx context.Context) ([]IntervalDTO, error) {
	intervals, err := s.deliveryRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery intervals")
	}
	return s.toDTOs(intervals), nil
}

// EnsureSelectable loads an interval and verifies it is active and inside
// its selection window right now. Checkout calls this before accepting a
// slot.
func (s *service) EnsureSelectable(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery interval id is required")
	}
	interval, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "delivery interval not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery interval")
	}
	if !interval.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery interval is not available")
	}
	ok, err := WindowContains(s.now(), interval.AvailableFrom, interval.AvailableTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "evaluate interval window")
	}
	if !ok {
		msg := fmt.Sprintf("delivery interval can only be selected between %s and %s", interval.AvailableFrom, interval.AvailableTo)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return interval, nil
}

func (s *service) Create(ctx context.Context, dto CreateIntervalDTO) (IntervalDTO, error) {
	for _, value := range []string{dto.TimeFrom, dto.TimeTo, dto.AvailableFrom, dto.AvailableTo} {
		if _, err := parseClock(value); err != nil {
			return IntervalDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid interval time")
		}
	}
	interval := &models.DeliveryInterval{
		TimeFrom:      dto.TimeFrom,
		TimeTo:        dto.TimeTo,
		AvailableFrom: dto.AvailableFrom,
		AvailableTo:   dto.AvailableTo,
		SortOrder:     dto.SortOrder,
		IsActive:      true,
	}
	created, err := s.deliveryRepo.Create(ctx, interval)
	if err != nil {
		return IntervalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery interval")
	}
	return s.toDTO(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateIntervalDTO) (IntervalDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return IntervalDTO{}, err
	}
	updates := map[string]any{}
	for column, value := range map[string]*string{
		"time_from":      dto.TimeFrom,
		"time_to":        dto.TimeTo,
		"available_from": dto.AvailableFrom,
		"available_to":   dto.AvailableTo,
	} {
		if value == nil {
			continue
		}
		if _, err := parseClock(*value); err != nil {
			return IntervalDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid interval time")
		}
		updates[column] = *value
	}
	if dto.SortOrder != nil {
		updates["sort_order"] = *dto.SortOrder
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if err := s.deliveryRepo.Update(ctx, id, updates); err != nil {
		return IntervalDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery interval")
	}
	interval, err := s.load(ctx, id)
	if err != nil {
		return IntervalDTO{}, err
	}
	return s.toDTO(interval), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.deliveryRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete delivery interval")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.DeliveryInterval, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery interval id is required")
	}
	interval, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "delivery interval not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery interval")
	}
	return interval, nil
}

func (s *service) toDTOs(intervals []models.DeliveryInterval) []IntervalDTO {
	items := make([]IntervalDTO, 0, len(intervals))
	for i := range intervals {
		items = append(items, s.toDTO(&intervals[i]))
	}
	return items
}

func (s *service) toDTO(interval *models.DeliveryInterval) IntervalDTO {
	selectable, err := WindowContains(s.now(), interval.AvailableFrom, interval.AvailableTo)
	if err != nil {
		selectable = false
	}
	return IntervalDTO{
		ID:            interval.ID,
		TimeFrom:      interval.TimeFrom,
		TimeTo:        interval.TimeTo,
		AvailableFrom: interval.AvailableFrom,
		AvailableTo:   interval.AvailableTo,
		SortOrder:     interval.SortOrder,
		IsActive:      interval.IsActive,
		SelectableNow: selectable,
	}
}
