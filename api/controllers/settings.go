package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	settingssvc "github.com/gryadkadev/gryadka-backend/internal/settings"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

// PublicSettings returns the whitelisted storefront settings.
func PublicSettings(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		values, err := svc.Public(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"settings": values})
	}
}
