package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
)

// Routes mounts the back-office endpoints, admin role only
func Routes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.Use(middleware.RequireAdmin)

	r.Get("/customers", h.ListCustomers)
	r.Get("/customerCount", h.CustomerCount)
	r.Get("/daily-credit-totals", h.DailyCreditTotals)
	r.Post("/send-payment-reminder", h.SendPaymentReminder)

	return r
}
