package middleware

import (
	"context"

	"github.com/gryadkadev/gryadka-backend/internal/users"
)

type contextKey string

const ctxUser contextKey = "current_user"

// WithUser injects the resolved user into the context.
func WithUser(ctx context.Context, user users.UserDTO) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}

// UserFromContext returns the resolved user, if identity middleware ran.
func UserFromContext(ctx context.Context) (users.UserDTO, bool) {
	if ctx == nil {
		return users.UserDTO{}, false
	}
	user, ok := ctx.Value(ctxUser).(users.UserDTO)
	return user, ok
}

// UserIDFromContext returns the resolved user id as a string, or "".
func UserIDFromContext(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID.String()
	}
	return ""
}
