package controllers

import (
	"net/http"
	"strings"

	"github.com/gryadkadev/gryadka-backend/api/middleware"
	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/api/validators"
	usersvc "github.com/gryadkadev/gryadka-backend/internal/users"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

type setBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type setAdminRequest struct {
	Admin bool `json:"admin"`
}

// AdminListUsers returns one page of customers, optionally narrowed to
// blocked accounts or a name search.
func AdminListUsers(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := usersvc.ListFilters{
			Query:       validators.SanitizeString(r.URL.Query().Get("q"), 120),
			BlockedOnly: strings.EqualFold(r.URL.Query().Get("blocked"), "true"),
		}

		page, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// AdminSetUserBlocked blocks or unblocks a customer. Admins cannot block
// themselves, which would lock the last admin out mid-session.
func AdminSetUserBlocked(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.UserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setBlockedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Blocked && actor.ID == userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot block your own account"))
			return
		}

		user, err := svc.SetBlocked(r.Context(), userID, payload.Blocked)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminSetUserAdmin grants or revokes back-office access.
func AdminSetUserAdmin(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.UserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setAdminRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if !payload.Admin && actor.ID == userID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cannot revoke your own admin access"))
			return
		}

		user, err := svc.SetAdmin(r.Context(), userID, payload.Admin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
