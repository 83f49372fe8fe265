package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	faqsvc "github.com/gryadkadev/gryadka-backend/internal/faq"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type createFAQRequest struct {
	Question  string `json:"question" validate:"required"`
	Answer    string `json:"answer" validate:"required"`
	SortOrder int    `json:"sort_order" validate:"omitempty,min=0"`
}

type updateFAQRequest struct {
	Question  *string `json:"question,omitempty"`
	Answer    *string `json:"answer,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func AdminListFAQ(svc faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func AdminCreateFAQ(svc faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), faqsvc.CreateItemDTO{
			Question:  payload.Question,
			Answer:    payload.Answer,
			SortOrder: payload.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminUpdateFAQ(svc faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "faqId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateFAQRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), itemID, faqsvc.UpdateItemDTO{
			Question:  payload.Question,
			Answer:    payload.Answer,
			SortOrder: payload.SortOrder,
			IsActive:  payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteFAQ(svc faqsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "faqId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
