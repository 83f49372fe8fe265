package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	promosvc "github.com/gryadkadev/gryadka-backend/internal/promo"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type validatePromoRequest struct {
	Code     string          `json:"code" validate:"required"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"required"`
}

type validatePromoResponse struct {
	Valid    bool             `json:"valid"`
	Code     string           `json:"code,omitempty"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
}

// ValidatePromo dry-runs a promo code against a subtotal so the cart screen
// can show the discount before checkout. Nothing is consumed here.
func ValidatePromo(svc promosvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		var payload validatePromoRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Subtotal.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative"))
			return
		}

		result, err := svc.Resolve(r.Context(), payload.Code, payload.Subtotal, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result == nil || result.Promo == nil {
			responses.WriteSuccess(w, validatePromoResponse{Valid: false})
			return
		}

		discount := result.Discount
		responses.WriteSuccess(w, validatePromoResponse{
			Valid:    true,
			Code:     result.Promo.Code,
			Discount: &discount,
		})
	}
}
