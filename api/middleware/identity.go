package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gryadkadev/gryadka-backend/api/responses"
	"github.com/gryadkadev/gryadka-backend/internal/users"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
	"github.com/gryadkadev/gryadka-backend/pkg/logger"
)

const telegramIDHeader = "X-Telegram-Id"

// TelegramIDFromRequest parses the caller's Telegram id header.
func TelegramIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(telegramIDHeader))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "telegram id header required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid telegram id header")
	}
	return id, nil
}

// Identity resolves the Telegram id header to a user record and stores it in
// the request context. Unknown ids are unauthorized, blocked users are
// forbidden.
func Identity(usersService users.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegramID, err := TelegramIDFromRequest(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			user, err := usersService.GetByTelegramID(r.Context(), telegramID)
			if err != nil {
				if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
					err = pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user, sync profile first")
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if user.IsBlocked {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin gates back-office routes on the resolved user's admin flag.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !user.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
