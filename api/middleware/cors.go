package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the configured storefront origins to call the XHR endpoints
// with credentials, so the session and CSRF cookies travel along.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRFToken", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
