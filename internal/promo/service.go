package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// ValidationResult is the outcome of resolving a promo code against a cart
// subtotal. A nil Promo with no error means the code silently missed.
type ValidationResult struct {
	Promo    *models.PromoCode
	Discount decimal.Decimal
}

// CreatePromoDTO carries admin input for a new promo code.
type CreatePromoDTO struct {
	Code           string
	DiscountType   enums.DiscountType
	Value          decimal.Decimal
	MinOrderAmount *decimal.Decimal
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxUses        *int
}

// UpdatePromoDTO carries partial admin updates; nil fields are untouched.
type UpdatePromoDTO struct {
	Value          *decimal.Decimal
	MinOrderAmount *decimal.Decimal
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	MaxUses        *int
	IsActive       *bool
}

// ServiceParams groups dependencies for the promo service.
type ServiceParams struct {
	PromoRepo *Repository
}

// Service resolves promo codes during checkout and manages them for the
// back office.
type Service interface {
	Resolve(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*ValidationResult, error)
	List(ctx context.Context) ([]models.PromoCode, error)
	Create(ctx context.Context, dto CreatePromoDTO) (*models.PromoCode, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdatePromoDTO) (*models.PromoCode, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	promoRepo *Repository
}

// NewService builds a promo service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PromoRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo repo is required")
	}
	return &service{promoRepo: params.PromoRepo}, nil
}

// Resolve looks up and validates a promo code against the subtotal. An
// unknown or inactive code is not an error: the checkout proceeds without a
// discount. A known code that fails a constraint is a validation error.
func (s *service) Resolve(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*ValidationResult, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return &ValidationResult{Discount: decimal.Zero}, nil
	}

	promo, err := s.promoRepo.FindActiveByCode(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationResult{Discount: decimal.Zero}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}

	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not active yet")
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code has expired")
	}
	if promo.MinOrderAmount != nil && subtotal.LessThan(*promo.MinOrderAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("promo code requires a minimum order of %s", promo.MinOrderAmount.StringFixed(2)))
	}
	if promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code usage limit reached")
	}

	return &ValidationResult{Promo: promo, Discount: Discount(promo, subtotal)}, nil
}

// Discount computes the money value of a promo against a subtotal. Percent
// codes take a share of the subtotal; fixed codes are clamped to it.
func Discount(promo *models.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}
	switch promo.DiscountType {
	case enums.DiscountPercent:
		return subtotal.Mul(promo.Value).Div(decimal.NewFromInt(100)).Round(2)
	case enums.DiscountFixed:
		if promo.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return promo.Value
	default:
		return decimal.Zero
	}
}

func (s *service) List(ctx context.Context) ([]models.PromoCode, error) {
	promos, err := s.promoRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo codes")
	}
	return promos, nil
}

func (s *service) Create(ctx context.Context, dto CreatePromoDTO) (*models.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(dto.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if !dto.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if dto.Value.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if dto.DiscountType == enums.DiscountPercent && dto.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent discount cannot exceed 100")
	}
	if dto.MaxUses != nil && *dto.MaxUses <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max uses must be positive")
	}

	promo := &models.PromoCode{
		Code:           code,
		DiscountType:   dto.DiscountType,
		Value:          dto.Value,
		MinOrderAmount: dto.MinOrderAmount,
		ValidFrom:      dto.ValidFrom,
		ValidUntil:     dto.ValidUntil,
		MaxUses:        dto.MaxUses,
		IsActive:       true,
	}
	created, err := s.promoRepo.Create(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "create promo code")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdatePromoDTO) (*models.PromoCode, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if dto.Value != nil {
		if dto.Value.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
		}
		updates["value"] = *dto.Value
	}
	if dto.MinOrderAmount != nil {
		updates["min_order_amount"] = *dto.MinOrderAmount
	}
	if dto.ValidFrom != nil {
		updates["valid_from"] = *dto.ValidFrom
	}
	if dto.ValidUntil != nil {
		updates["valid_until"] = *dto.ValidUntil
	}
	if dto.MaxUses != nil {
		updates["max_uses"] = *dto.MaxUses
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	if err := s.promoRepo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promo code")
	}
	return s.load(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.promoRepo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promo code")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code id is required")
	}
	promo, err := s.promoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "promo code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}
	return promo, nil
}
