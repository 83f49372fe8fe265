package controllers

import (
	"net/http"

	"github.com/gryadkadev/gryadka-backend/api/middleware"
	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	usersvc "github.com/gryadkadev/gryadka-backend/internal/users"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type syncUserRequest struct {
	Username  *string `json:"username,omitempty"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name,omitempty"`
}

// SyncUser upserts the caller's Telegram profile. The route sits outside the
// identity middleware because it is how a first-time user gets a record at
// all, so the Telegram id is read straight off the header.
func SyncUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		telegramID, err := middleware.TelegramIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload syncUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Sync(r.Context(), usersvc.SyncUserDTO{
			TelegramID: telegramID,
			Username:   payload.Username,
			FirstName:  validators.SanitizeString(payload.FirstName, 120),
			LastName:   payload.LastName,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// CurrentUser returns the profile resolved by the identity middleware.
func CurrentUser(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		responses.WriteSuccess(w, user)
	}
}
