package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/fangbw17/sidebar/internal/httpserver/deps"
	"github.com/fangbw17/sidebar/internal/httpserver/handlers"
	"github.com/fangbw17/sidebar/internal/httpserver/mw"
)

func init() { Register(registerSidebar) }

func registerSidebar(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		api.Use(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RatePerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		}))

		api.Get("/sidebar", handlers.SidebarAll(d))
		api.Get("/sidebar/{locale}", handlers.SidebarByLocale(d))
		api.Get("/site/{locale}", handlers.SiteByLocale(d))
	})
}
