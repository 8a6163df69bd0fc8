package credit

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/response"
	"github.com/renjith-irohub/petronix-api/internal/pkg/validator"
)

// Handler serves the customer credit transaction endpoints
type Handler struct {
	service *Service
}

// NewHandler creates credit handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Request handles POST /customer-credit-transaction
func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var body RequestCreditBody
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&body); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	t, err := h.service.Request(r.Context(), customerID, body.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, NewTransactionResponse(t, time.Now()))
}

// List handles GET /customer-credit-transaction
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	summary, credits, err := h.service.Summary(r.Context(), customerID, time.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewSummaryResponse(summary, credits, time.Now()))
}

// ListPending handles GET /customer-credit-transaction/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	credits, err := h.service.ListPendingRequests(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	now := time.Now()
	items := make([]TransactionResponse, 0, len(credits))
	for i := range credits {
		items = append(items, NewTransactionResponse(&credits[i], now))
	}
	response.OK(w, items)
}

// PayDebt handles POST /customer-credit-transaction/pay-debt
func (h *Handler) PayDebt(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var body PayDebtBody
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&body); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	clientSecret, err := h.service.PayDebt(r.Context(), customerID, body.Amount, body.TransactionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, PayDebtResponse{ClientSecret: clientSecret})
}

// ConfirmPayment handles POST /customer-credit-transaction/confirm-payment.
// The browser calls this after Stripe reports the payment intent
// succeeded; the service re-checks the intent with Stripe before the
// ledger changes.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	var body ConfirmPaymentBody
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&body); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	if err := h.service.ConfirmRepayment(r.Context(), customerID, body.TransactionID, time.Now()); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "repaid"})
}

// Get handles GET /customer-credit-transaction/{id}, the admin drill-down
// into a single request.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid transaction id")
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponse(t, time.Now()))
}

// Approve handles PUT /customer-credit-transaction/approve/{id}
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid transaction id")
		return
	}

	t, err := h.service.Approve(r.Context(), adminID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponse(t, time.Now()))
}

// Reject handles PUT /customer-credit-transaction/reject/{id}
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid transaction id")
		return
	}

	var body RejectBody
	if err := response.DecodeJSON(r.Body, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if fields := validator.Validate(&body); fields != nil {
		response.ValidationError(w, fields)
		return
	}

	t, err := h.service.Reject(r.Context(), adminID, id, body.RejectionReason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, NewTransactionResponse(t, time.Now()))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be a positive number")
	case errors.Is(err, ErrLimitExceeded):
		response.BadRequest(w, "requested amount exceeds available credit limit")
	case errors.Is(err, ErrMissingReason):
		response.BadRequest(w, "rejection reason is required")
	case errors.Is(err, ErrAlreadyDecided):
		response.Conflict(w, "credit request has already been decided")
	case errors.Is(err, ErrNotRepayable):
		response.Conflict(w, "transaction is not an outstanding approved credit")
	case errors.Is(err, ErrPaymentNotCompleted):
		response.Error(w, http.StatusPaymentRequired, "PAYMENT_NOT_COMPLETED", "payment has not been completed")
	case errors.Is(err, ErrAccountSuspended):
		response.Forbidden(w, "account is suspended for overdue repayment")
	case errors.Is(err, ErrNotFound), errors.Is(err, customer.ErrNotFound), errors.Is(err, customer.ErrAccountMissing):
		response.NotFound(w, "credit transaction not found")
	default:
		response.InternalError(w)
	}
}
