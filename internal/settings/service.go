package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// Known setting keys.
const (
	KeyMinOrderAmount   = "min_order_amount"
	KeyFreeDeliveryFrom = "free_delivery_from"
	KeyDeliveryCost     = "delivery_cost"
	KeyContactPhone     = "contact_phone"
	KeyContactAddress   = "contact_address"
	KeyContactHours     = "contact_hours"
	KeyContactEmail     = "contact_email"
)

// Checkout is the typed snapshot of the numeric settings checkout depends on.
type Checkout struct {
	MinOrderAmount   decimal.Decimal
	FreeDeliveryFrom decimal.Decimal
	DeliveryCost     decimal.Decimal
}

// SettingDTO is one setting row for the back office.
type SettingDTO struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceParams groups dependencies for the settings service.
type ServiceParams struct {
	SettingsRepo *Repository
	// RefreshInterval bounds how stale the cached checkout snapshot may be.
	RefreshInterval time.Duration
	Now             func() time.Time
}

// Service exposes typed checkout settings, the public contact block and
// back-office editing.
type Service interface {
	Checkout(ctx context.Context) (Checkout, error)
	Public(ctx context.Context) (map[string]string, error)
	List(ctx context.Context) ([]SettingDTO, error)
	Upsert(ctx context.Context, key, value string, description *string) (SettingDTO, error)
	Invalidate()
}

type service struct {
	settingsRepo    *Repository
	refreshInterval time.Duration
	now             func() time.Time

	mu        sync.RWMutex
	snapshot  *Checkout
	fetchedAt time.Time
}

// NewService builds a settings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SettingsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings repo is required")
	}
	refresh := params.RefreshInterval
	if refresh <= 0 {
		refresh = time.Minute
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		settingsRepo:    params.SettingsRepo,
		refreshInterval: refresh,
		now:             now,
	}, nil
}

// Checkout returns the cached numeric snapshot, reloading it after the
// refresh interval. Malformed numeric values fail loudly instead of reading
// as zero.
func (s *service) Checkout(ctx context.Context) (Checkout, error) {
	s.mu.RLock()
	if s.snapshot != nil && s.now().Sub(s.fetchedAt) < s.refreshInterval {
		snapshot := *s.snapshot
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && s.now().Sub(s.fetchedAt) < s.refreshInterval {
		return *s.snapshot, nil
	}

	rows, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return Checkout{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	snapshot, err := buildCheckout(rows)
	if err != nil {
		return Checkout{}, err
	}
	s.snapshot = &snapshot
	s.fetchedAt = s.now()
	return snapshot, nil
}

// Invalidate drops the cached snapshot; the next read reloads it.
func (s *service) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

// Public returns the contact block and delivery terms for the storefront.
func (s *service) Public(ctx context.Context) (map[string]string, error) {
	rows, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	public := map[string]string{}
	for _, key := range []string{
		KeyMinOrderAmount, KeyFreeDeliveryFrom, KeyDeliveryCost,
		KeyContactPhone, KeyContactAddress, KeyContactHours, KeyContactEmail,
	} {
		if row, ok := rows[key]; ok {
			public[key] = row.Value
		}
	}
	return public, nil
}

// List returns every setting for the back office.
func (s *service) List(ctx context.Context) ([]SettingDTO, error) {
	rows, err := s.settingsRepo.GetAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	items := make([]SettingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return items, nil
}

// Upsert writes a setting and invalidates the checkout snapshot. Numeric
// keys are validated before the write so a typo cannot poison checkout.
func (s *service) Upsert(ctx context.Context, key, value string, description *string) (SettingDTO, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return SettingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "setting key is required")
	}
	if isNumericKey(key) {
		parsed, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return SettingDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("setting %s must be numeric", key))
		}
		if parsed.IsNegative() {
			return SettingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("setting %s cannot be negative", key))
		}
		value = parsed.String()
	}
	if err := s.settingsRepo.Upsert(ctx, key, value, description); err != nil {
		return SettingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write setting")
	}
	s.Invalidate()

	row, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return SettingDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return toDTO(*row), nil
}

func buildCheckout(rows map[string]models.Setting) (Checkout, error) {
	snapshot := Checkout{}
	for key, target := range map[string]*decimal.Decimal{
		KeyMinOrderAmount:   &snapshot.MinOrderAmount,
		KeyFreeDeliveryFrom: &snapshot.FreeDeliveryFrom,
		KeyDeliveryCost:     &snapshot.DeliveryCost,
	} {
		row, ok := rows[key]
		if !ok {
			continue
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(row.Value))
		if err != nil {
			return Checkout{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("setting %s is not numeric", key))
		}
		*target = parsed
	}
	return snapshot, nil
}

func isNumericKey(key string) bool {
	switch key {
	case KeyMinOrderAmount, KeyFreeDeliveryFrom, KeyDeliveryCost:
		return true
	}
	return false
}

func toDTO(row models.Setting) SettingDTO {
	return SettingDTO{
		Key:         row.Key,
		Value:       row.Value,
		Description: row.Description,
		UpdatedAt:   row.UpdatedAt,
	}
}
