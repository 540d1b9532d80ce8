package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/wahiba-atelier/atelier-backend/pkg/config"
)

// CORS returns middleware that lets the configured storefront origins call the API.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", CartSessionHeader, "X-Requested-With"},
		ExposedHeaders:   []string{CartSessionHeader, requestIDHeader},
		AllowCredentials: true,
		MaxAge:           cfg.MaxAge,
	}).Handler
}
