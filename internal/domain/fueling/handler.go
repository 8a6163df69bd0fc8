package fueling

import (
	"errors"
	"net/http"
	"time"

	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
	"github.com/renjith-irohub/petronix-api/internal/pkg/validator"
)

// Handler serves the fueling transaction endpoints
type Handler struct {
	service *Service
}

// NewHandler creates fueling handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// FuelSale handles POST /transcation/fuel-sale
func (h *Handler) FuelSale(w http.ResponseWriter, r *http.Request) {
	salesRepID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var body FuelSaleBody
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&body); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	t, err := h.service.RecordSale(r.Context(), salesRepID, body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, FuelSaleResponse{
		TransactionID: t.ID,
		ChargedAmount: money.Rupees(t.Amount),
		PaymentType:   string(t.PaymentType),
		PaymentStatus: string(t.PaymentStatus),
	})
}

// CustomerHistory handles GET /transcation/customer-history
func (h *Handler) CustomerHistory(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	ts, err := h.service.CustomerHistory(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponses(ts))
}

// RecentPayments handles GET /transcation/recent-payments
func (h *Handler) RecentPayments(w http.ResponseWriter, r *http.Request) {
	ts, err := h.service.RecentPayments(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponses(ts))
}

// TodaySales handles GET /transcation/today
func (h *Handler) TodaySales(w http.ResponseWriter, r *http.Request) {
	salesRepID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	ts, err := h.service.TodayBySalesRep(r.Context(), salesRepID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponses(ts))
}

// FuelMix handles GET /transcation/fuel-mix
func (h *Handler) FuelMix(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.FuelMix(r.Context(), 30*24*time.Hour)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewFuelTypeTotalResponses(totals))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPin):
		response.BadRequest(w, "pin must be exactly four digits")
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "fuel amount must be a positive number")
	case errors.Is(err, ErrPinMismatch):
		response.Unauthorized(w, "incorrect pin")
	case errors.Is(err, ErrAccountSuspended):
		response.Forbidden(w, "customer account is suspended for overdue repayment")
	case errors.Is(err, ErrRepInactive):
		response.Forbidden(w, "sales rep has been deactivated")
	case errors.Is(err, ErrInsufficientCredit):
		response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_CREDIT", "insufficient credit balance")
	case errors.Is(err, ErrCustomerNotFound), errors.Is(err, customer.ErrNotFound), errors.Is(err, customer.ErrAccountMissing):
		response.NotFound(w, "customer not found")
	default:
		response.InternalError(w)
	}
}
