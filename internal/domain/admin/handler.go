package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
	"github.com/renjith-irohub/petronix-api/internal/pkg/validator"
)

// Handler serves the back-office endpoints
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListCustomers handles GET /admin/customers?page=&limit=
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	customers, total, err := h.service.ListCustomers(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	response.WithMeta(w, customers, response.Meta{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// CustomerCount handles GET /admin/customerCount
func (h *Handler) CustomerCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CustomerCount(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]int{"customerCount": count})
}

// DailyCreditTotals handles GET /admin/daily-credit-totals?days=
func (h *Handler) DailyCreditTotals(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	totals, err := h.service.DailyCreditTotals(r.Context(), days)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, totals)
}

// SendPaymentReminder handles POST /admin/send-payment-reminder
func (h *Handler) SendPaymentReminder(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	if err := h.service.SendPaymentReminder(r.Context(), req.CustomerID); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "sent"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		response.NotFound(w, "customer not found")
	case errors.Is(err, ErrNothingOutstanding):
		response.Conflict(w, "customer has no outstanding credit")
	default:
		response.InternalError(w)
	}
}
