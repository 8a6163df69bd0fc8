package pump

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
	"github.com/renjith-irohub/petronix-api/internal/pkg/validator"
)

// Handler serves pump, pump-owner and sales rep endpoints
type Handler struct {
	service *Service
}

// NewHandler creates pump handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterOwner handles POST /pump-owner/register
func (h *Handler) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	var req RegisterOwnerRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	u, err := h.service.RegisterOwner(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

// Create handles POST /pump
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req CreatePumpRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	p, err := h.service.CreatePump(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, NewPumpResponse(p))
}

// ListMine handles GET /pump
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	ps, err := h.service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewPumpResponses(ps))
}

// ListPending handles GET /pump/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.ListPending(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewPumpResponses(ps))
}

// Approve handles PUT /pump/approve/{id}
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}

	p, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewPumpResponse(p))
}

// Reject handles PUT /pump/reject/{id}
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}

	var req RejectRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	p, err := h.service.Reject(r.Context(), id, req.RejectionReason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewPumpResponse(p))
}

// Nearby handles GET /pump/nearby?lat=&lng=&radius=
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, "lat is required")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		response.BadRequest(w, "lng is required")
		return
	}
	radius, _ := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)

	ps, err := h.service.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewNearbyPumpResponses(ps))
}

// AddSalesRep handles POST /salesRep
func (h *Handler) AddSalesRep(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req AddSalesRepRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	rep, err := h.service.AddSalesRep(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, NewSalesRepResponse(rep))
}

// ListSalesReps handles GET /salesRep
func (h *Handler) ListSalesReps(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	reps, err := h.service.ListActiveSalesReps(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewSalesRepResponses(reps))
}

// RemoveSalesRep handles DELETE /salesRep/{id}
func (h *Handler) RemoveSalesRep(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	repID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid sales rep id")
		return
	}

	if err := h.service.RemoveSalesRep(r.Context(), ownerID, repID); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "removed"})
}

// Subscribe handles POST /pump-subscription
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req SubscribeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	pumpID, err := uuid.Parse(req.PumpID)
	if err != nil {
		response.BadRequest(w, "invalid pump id")
		return
	}

	sub, clientSecret, err := h.service.Subscribe(r.Context(), ownerID, pumpID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, NewSubscriptionResponse(sub, clientSecret))
}

// ConfirmSubscription handles POST /pump-subscription/confirm
func (h *Handler) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req ConfirmSubscriptionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	subID, err := uuid.Parse(req.SubscriptionID)
	if err != nil {
		response.BadRequest(w, "invalid subscription id")
		return
	}

	sub, err := h.service.ConfirmSubscription(r.Context(), ownerID, subID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewSubscriptionResponse(sub, ""))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingReason):
		response.BadRequest(w, "rejection reason is required")
	case errors.Is(err, ErrInvalidCoords):
		response.BadRequest(w, "coordinates are out of range")
	case errors.Is(err, ErrAlreadyDecided):
		response.Conflict(w, "pump registration has already been decided")
	case errors.Is(err, user.ErrEmailConflict):
		response.Conflict(w, "email is already registered")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "pump not found")
	case errors.Is(err, ErrRepNotFound):
		response.NotFound(w, "sales rep not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "pump does not belong to this owner")
	case errors.Is(err, ErrNotApproved):
		response.Conflict(w, "pump must be approved before subscribing")
	case errors.Is(err, ErrAlreadySubscribed):
		response.Conflict(w, "pump already has an active subscription")
	case errors.Is(err, ErrSubscriptionNotFound):
		response.NotFound(w, "subscription not found")
	case errors.Is(err, ErrSubscriptionNotPending):
		response.Conflict(w, "subscription has already been decided")
	case errors.Is(err, ErrPaymentNotCompleted):
		response.Error(w, http.StatusPaymentRequired, "PAYMENT_NOT_COMPLETED", "payment has not been completed")
	default:
		response.InternalError(w)
	}
}
