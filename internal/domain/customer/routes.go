package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
)

// Routes returns customer router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireCustomer)
		r.Get("/profile", h.Profile)
	})

	return r
}
