package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/httpserver/handlers"
	"github.com/EOPeakDesigns/applink/internal/httpserver/mw"
)

func init() { Register(registerSessions) }

func registerSessions(r chi.Router, d deps.Deps) {
	sub := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	sub.Post("/sessions", handlers.BeginSession(d))
	sub.Post("/sessions/{id}/events", handlers.SessionEvents(d))
	sub.Get("/sessions/{id}", handlers.SessionStatus(d))
	sub.Delete("/sessions/{id}", handlers.DismissSession(d))
}
