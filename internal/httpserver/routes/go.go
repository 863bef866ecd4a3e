package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/EOPeakDesigns/applink/internal/httpserver/deps"
	"github.com/EOPeakDesigns/applink/internal/httpserver/handlers"
	"github.com/EOPeakDesigns/applink/internal/httpserver/mw"
)

func init() { Register(registerGo) }

func registerGo(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/go", handlers.Go(d))
}
