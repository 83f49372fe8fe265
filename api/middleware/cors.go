package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/gryadkadev/gryadka-backend/pkg/config"
)

// CORS returns middleware that applies the API's allowed origin policy.
// The mini-app is served from a separate origin, so the allow list comes
// from configuration.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Telegram-Id", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
