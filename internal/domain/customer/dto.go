package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// RegisterRequest for POST /customer/register
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
	Pin       string `json:"pin" validate:"required,pin"`
}

// ProfileResponse for GET /customer/profile
type ProfileResponse struct {
	ID                  uuid.UUID `json:"id"`
	Email               string    `json:"email"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	ApprovedCredit      float64   `json:"approvedCredit"`
	CreditLimit         float64   `json:"creditLimit"`
	PaymentCycleDays    int       `json:"paymentCycleDays"`
	IsSuspended         bool      `json:"isSuspended"`
	ConsecutivePayments int       `json:"consecutivePayments"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NewProfileResponse builds a profile response from user and account rows
func NewProfileResponse(id uuid.UUID, email, firstName, lastName string, createdAt time.Time, acc *CreditAccount) *ProfileResponse {
	return &ProfileResponse{
		ID:                  id,
		Email:               email,
		FirstName:           firstName,
		LastName:            lastName,
		ApprovedCredit:      money.Rupees(acc.ApprovedCredit),
		CreditLimit:         money.Rupees(acc.CreditLimit),
		PaymentCycleDays:    acc.PaymentCycleDays,
		IsSuspended:         acc.IsSuspended,
		ConsecutivePayments: acc.ConsecutivePayments,
		CreatedAt:           createdAt,
	}
}
