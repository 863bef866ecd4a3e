package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns the CORS policy for the public endpoints. The engine is
// consumed from card pages on other origins, so GET/POST from anywhere
// is expected; credentials are never used.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})
}
