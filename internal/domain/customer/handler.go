package customer

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
	"github.com/renjith-irohub/petronix-api/internal/pkg/validator"
)

// Handler handles customer HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates customer handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /customer/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	profile, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailConflict) {
			response.Conflict(w, "Email already registered")
			return
		}
		log.Error().Err(err).Str("email", req.Email).Msg("Customer registration failed")
		response.InternalError(w)
		return
	}

	response.Created(w, profile)
}

// Profile handles GET /customer/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	profile, err := h.service.Profile(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccountMissing) {
			response.NotFound(w, "Customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, profile)
}
