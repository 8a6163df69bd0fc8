package credit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
)

// Routes mounts customer credit transaction endpoints. List/request/pay
// are customer operations; approve and reject are admin decisions.
func Routes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCustomer)
		r.Get("/", h.List)
		r.Post("/", h.Request)
		r.Post("/pay-debt", h.PayDebt)
		r.Post("/confirm-payment", h.ConfirmPayment)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/pending", h.ListPending)
		r.Get("/{id}", h.Get)
		r.Put("/approve/{id}", h.Approve)
		r.Put("/reject/{id}", h.Reject)
	})

	return r
}
