package controllers

import (
	"net/http"
	"strings"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	settingssvc "github.com/gryadkadev/gryadka-backend/internal/settings"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type upsertSettingRequest struct {
	Key         string  `json:"key" validate:"required"`
	Value       string  `json:"value" validate:"required"`
	Description *string `json:"description,omitempty"`
}

func AdminListSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"settings": settings})
	}
}

// AdminUpsertSetting writes one setting and drops the cached checkout
// snapshot so the new value takes effect immediately.
func AdminUpsertSetting(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsertSettingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setting, err := svc.Upsert(r.Context(), strings.TrimSpace(payload.Key), payload.Value, payload.Description)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, setting)
	}
}
