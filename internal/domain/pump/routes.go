package pump

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
)

// Routes mounts station endpoints under /pump. Nearby is customer
// facing, registration is owner facing, decisions are admin only.
func Routes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.Get("/nearby", h.Nearby)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOwner)
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/pending", h.ListPending)
		r.Put("/approve/{id}", h.Approve)
		r.Put("/reject/{id}", h.Reject)
	})

	return r
}

// OwnerRoutes mounts the public owner registration under /pump-owner.
func OwnerRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.RegisterOwner)
	return r
}

// SubscriptionRoutes mounts listing subscriptions under
// /pump-subscription. Owner only.
func SubscriptionRoutes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Use(middleware.RequireOwner)

	r.Post("/", h.Subscribe)
	r.Post("/confirm", h.ConfirmSubscription)

	return r
}

// SalesRepRoutes mounts sales rep management under /salesRep.
func SalesRepRoutes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Use(middleware.RequireOwner)

	r.Post("/", h.AddSalesRep)
	r.Get("/", h.ListSalesReps)
	r.Delete("/{id}", h.RemoveSalesRep)

	return r
}
