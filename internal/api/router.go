package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP handler for the bank API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", h.registerClient)
			r.Get("/", h.listClients)
			r.Get("/{id}", h.getClient)
			r.Delete("/{id}", h.removeClient)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.openAccount)
			r.Get("/", h.listAccounts)
			r.Get("/{number}", h.getAccount)
			r.Delete("/{number}", h.closeAccount)
			r.Post("/{number}/deposit", h.deposit)
			r.Post("/{number}/withdraw", h.withdraw)
			r.Get("/{number}/movements", h.movements)
		})

		r.Post("/transfers", h.transfer)

		r.Route("/fixed-terms", func(r chi.Router) {
			r.Post("/", h.createFixedTerm)
			r.Post("/{number}/accrue", h.accrueInterest)
		})

		r.Get("/movements", h.movements)
		r.Get("/report", h.report)
	})

	return r
}

// chiRoutePattern returns the matched route pattern, or the raw path when no
// pattern matched (404s).
func chiRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
