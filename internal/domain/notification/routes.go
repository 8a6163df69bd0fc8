package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the polling notification endpoints
func Routes(h *Handler, auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.Get("/user", h.ListForUser)
	r.Get("/unread-count", h.UnreadCount)
	r.Put("/read/{id}", h.MarkAsRead)

	return r
}
