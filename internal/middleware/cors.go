package middleware

import (
	"net/http"

	"paytrack-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS wrapper from configured origins. An empty list allows
// any origin, which is acceptable for local development only.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
		options.AllowCredentials = false
	}

	return cors.New(options).Handler
}
