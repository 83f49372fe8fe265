package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	deliverysvc "github.com/gryadkadev/gryadka-backend/internal/delivery"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type createIntervalRequest struct {
	TimeFrom      string `json:"time_from" validate:"required"`
	TimeTo        string `json:"time_to" validate:"required"`
	AvailableFrom string `json:"available_from" validate:"required"`
	AvailableTo   string `json:"available_to" validate:"required"`
	SortOrder     int    `json:"sort_order" validate:"omitempty,min=0"`
}

type updateIntervalRequest struct {
	TimeFrom      *string `json:"time_from,omitempty"`
	TimeTo        *string `json:"time_to,omitempty"`
	AvailableFrom *string `json:"available_from,omitempty"`
	AvailableTo   *string `json:"available_to,omitempty"`
	SortOrder     *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// AdminListDeliveryIntervals returns every slot, inactive included.
func AdminListDeliveryIntervals(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intervals, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"intervals": intervals})
	}
}

func AdminCreateDeliveryInterval(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createIntervalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		interval, err := svc.Create(r.Context(), deliverysvc.CreateIntervalDTO{
			TimeFrom:      payload.TimeFrom,
			TimeTo:        payload.TimeTo,
			AvailableFrom: payload.AvailableFrom,
			AvailableTo:   payload.AvailableTo,
			SortOrder:     payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, interval)
	}
}

func AdminUpdateDeliveryInterval(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intervalID, err := pathUUID(r, "intervalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateIntervalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		interval, err := svc.Update(r.Context(), intervalID, deliverysvc.UpdateIntervalDTO{
			TimeFrom:      payload.TimeFrom,
			TimeTo:        payload.TimeTo,
			AvailableFrom: payload.AvailableFrom,
			AvailableTo:   payload.AvailableTo,
			SortOrder:     payload.SortOrder,
			IsActive:      payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, interval)
	}
}

func AdminDeleteDeliveryInterval(svc deliverysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		intervalID, err := pathUUID(r, "intervalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), intervalID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
