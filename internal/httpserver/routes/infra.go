package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/fangbw17/sidebar/internal/httpserver/deps"
	"github.com/fangbw17/sidebar/internal/httpserver/handlers"
	"github.com/fangbw17/sidebar/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/infra", handlers.Infra(d))
}
