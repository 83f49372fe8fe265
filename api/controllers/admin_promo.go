package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	promosvc "github.com/gryadkadev/gryadka-backend/internal/promo"
	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type createPromoRequest struct {
	Code           string           `json:"code" validate:"required"`
	DiscountType   string           `json:"discount_type" validate:"required"`
	Value          decimal.Decimal  `json:"value" validate:"required"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	MaxUses        *int             `json:"max_uses,omitempty" validate:"omitempty,min=1"`
}

type updatePromoRequest struct {
	Value          *decimal.Decimal `json:"value,omitempty"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	MaxUses        *int             `json:"max_uses,omitempty" validate:"omitempty,min=1"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

type promoResponse struct {
	ID             uuid.UUID          `json:"id"`
	Code           string             `json:"code"`
	DiscountType   enums.DiscountType `json:"discount_type"`
	Value          decimal.Decimal    `json:"value"`
	MinOrderAmount *decimal.Decimal   `json:"min_order_amount,omitempty"`
	ValidFrom      *time.Time         `json:"valid_from,omitempty"`
	ValidUntil     *time.Time         `json:"valid_until,omitempty"`
	MaxUses        *int               `json:"max_uses,omitempty"`
	CurrentUses    int                `json:"current_uses"`
	IsActive       bool               `json:"is_active"`
	CreatedAt      time.Time          `json:"created_at"`
}

func AdminListPromos(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promos, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]promoResponse, 0, len(promos))
		for i := range promos {
			out = append(out, toPromoResponse(&promos[i]))
		}
		responses.WriteSuccess(w, map[string]any{"promo_codes": out})
	}
}

func AdminCreatePromo(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createPromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountType, err := enums.ParseDiscountType(strings.TrimSpace(payload.DiscountType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type"))
			return
		}

		promo, err := svc.Create(r.Context(), promosvc.CreatePromoDTO{
			Code:           payload.Code,
			DiscountType:   discountType,
			Value:          payload.Value,
			MinOrderAmount: payload.MinOrderAmount,
			ValidFrom:      payload.ValidFrom,
			ValidUntil:     payload.ValidUntil,
			MaxUses:        payload.MaxUses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toPromoResponse(promo))
	}
}

func AdminUpdatePromo(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promoID, err := pathUUID(r, "promoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.Update(r.Context(), promoID, promosvc.UpdatePromoDTO{
			Value:          payload.Value,
			MinOrderAmount: payload.MinOrderAmount,
			ValidFrom:      payload.ValidFrom,
			ValidUntil:     payload.ValidUntil,
			MaxUses:        payload.MaxUses,
			IsActive:       payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toPromoResponse(promo))
	}
}

func AdminDeletePromo(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promoID, err := pathUUID(r, "promoId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), promoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func toPromoResponse(promo *models.PromoCode) promoResponse {
	return promoResponse{
		ID:             promo.ID,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		Value:          promo.Value,
		MinOrderAmount: promo.MinOrderAmount,
		ValidFrom:      promo.ValidFrom,
		ValidUntil:     promo.ValidUntil,
		MaxUses:        promo.MaxUses,
		CurrentUses:    promo.CurrentUses,
		IsActive:       promo.IsActive,
		CreatedAt:      promo.CreatedAt,
	}
}
