package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
)

// Handler serves the polling notification endpoints
type Handler struct {
	service *Service
}

// NewHandler creates notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListForUser handles GET /notification/user?userType=&page=&limit=
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, userType, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	items, total, err := h.service.List(r.Context(), userID, userType, page, limit)
	if err != nil {
		response.InternalError(w)
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	response.WithMeta(w, items, response.Meta{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// UnreadCount handles GET /notification/unread-count?userType=
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, userType, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID, userType)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"unreadCount": count})
}

// MarkAsRead handles PUT /notification/read/{id}
func (h *Handler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, userType, ok := callerIdentity(r)
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid notification id")
		return
	}

	if err := h.service.MarkAsRead(r.Context(), userID, userType, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "notification not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"status": "read"})
}

// callerIdentity resolves the notification audience: the token's user,
// with the role taken from the query override when present (the same
// person can act as customer and owner in different screens).
func callerIdentity(r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}

	userType := r.URL.Query().Get("userType")
	if userType == "" {
		userType, _ = middleware.GetUserType(r.Context())
	}
	return userID, userType, true
}
