package fueling

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
)

// Routes mounts the fueling transaction endpoints. The path segment
// keeps the spelling the public API shipped with.
func Routes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSalesRep)
		r.Post("/fuel-sale", h.FuelSale)
		r.Get("/today", h.TodaySales)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCustomer)
		r.Get("/customer-history", h.CustomerHistory)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)
		r.Get("/recent-payments", h.RecentPayments)
		r.Get("/fuel-mix", h.FuelMix)
	})

	return r
}
