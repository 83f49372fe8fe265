package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	deliverysvc "github.com/gryadkadev/gryadka-backend/internal/delivery"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

// ListDeliveryIntervals returns the active slots with their live
// selectability for the checkout screen.
func ListDeliveryIntervals(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery service unavailable"))
			return
		}

		intervals, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"intervals": intervals})
	}
}
