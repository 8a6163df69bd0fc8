package credit

import (
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// RequestCreditBody for POST /customer-credit-transaction
type RequestCreditBody struct {
	Amount float64 `json:"amount" validate:"required"`
}

// RejectBody for PUT /customer-credit-transaction/reject/{id}
type RejectBody struct {
	RejectionReason string `json:"rejectionReason" validate:"required,min=1"`
}

// PayDebtBody for POST /customer-credit-transaction/pay-debt
type PayDebtBody struct {
	Amount        float64   `json:"amount" validate:"required"`
	TransactionID uuid.UUID `json:"transactionId" validate:"required"`
}

// ConfirmPaymentBody for POST /customer-credit-transaction/confirm-payment
type ConfirmPaymentBody struct {
	TransactionID uuid.UUID `json:"transactionId" validate:"required"`
}

// PayDebtResponse carries the Stripe client secret back to the browser
type PayDebtResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// TransactionResponse represents a credit transaction in API responses
type TransactionResponse struct {
	ID                  uuid.UUID  `json:"id"`
	CustomerID          uuid.UUID  `json:"customerId"`
	Amount              float64    `json:"amount"`
	CreditRequestStatus Status     `json:"creditRequestStatus"`
	ApprovedBy          *uuid.UUID `json:"approvedBy,omitempty"`
	RejectionReason     string     `json:"rejectionReason,omitempty"`
	IsRepaid            bool       `json:"isRepaid"`
	PaybackDaysLeft     *int       `json:"paybackDaysLeft,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// SummaryResponse is the derived credit state plus history, the payload
// of GET /customer-credit-transaction
type SummaryResponse struct {
	TotalApprovedCredit float64               `json:"totalApprovedCredit"`
	UsedCredit          float64               `json:"usedCredit"`
	BalanceCredit       float64               `json:"balanceCredit"`
	PaybackDaysLeft     int                   `json:"paybackDaysLeft"`
	IsOverdue           bool                  `json:"isOverdue"`
	CreditTransactions  []TransactionResponse `json:"creditTransactions"`
}

// NewTransactionResponse converts a ledger row for API output
func NewTransactionResponse(t *CreditTransaction, now time.Time) TransactionResponse {
	resp := TransactionResponse{
		ID:                  t.ID,
		CustomerID:          t.CustomerID,
		Amount:              money.Rupees(t.Amount),
		CreditRequestStatus: t.Status,
		IsRepaid:            t.IsRepaid,
		CreatedAt:           t.CreatedAt,
	}
	if t.ApprovedBy.Valid {
		id := t.ApprovedBy.UUID
		resp.ApprovedBy = &id
	}
	if t.RejectionReason.Valid {
		resp.RejectionReason = t.RejectionReason.String
	}
	if t.Outstanding() {
		daysLeft := PaybackStatus(grantTime(t), now).DaysLeft
		resp.PaybackDaysLeft = &daysLeft
	}
	return resp
}

// NewSummaryResponse converts a ledger summary plus history for API output
func NewSummaryResponse(s Summary, transactions []CreditTransaction, now time.Time) *SummaryResponse {
	items := make([]TransactionResponse, len(transactions))
	for i := range transactions {
		items[i] = NewTransactionResponse(&transactions[i], now)
	}
	return &SummaryResponse{
		TotalApprovedCredit: money.Rupees(s.TotalApprovedCredit),
		UsedCredit:          money.Rupees(s.UsedCredit),
		BalanceCredit:       money.Rupees(s.BalanceCredit),
		PaybackDaysLeft:     s.PaybackDaysLeft,
		IsOverdue:           s.IsOverdue,
		CreditTransactions:  items,
	}
}
