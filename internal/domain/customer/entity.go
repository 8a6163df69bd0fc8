package customer

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCreditLimit is the approvable ceiling for new accounts, in paise.
const DefaultCreditLimit int64 = 50_000_00

// DefaultPaymentCycleDays is the fixed payback window for credit grants.
const DefaultPaymentCycleDays = 30

// CreditAccount holds the credit standing of a customer.
// ApprovedCredit tracks the currently authorized line (admin-controlled);
// CreditLimit is the maximum approvable amount. Both are paise.
type CreditAccount struct {
	CustomerID          uuid.UUID `db:"customer_id"`
	PINHash             string    `db:"pin_hash"`
	ApprovedCredit      int64     `db:"approved_credit"`
	CreditLimit         int64     `db:"credit_limit"`
	PaymentCycleDays    int       `db:"payment_cycle_days"`
	IsSuspended         bool      `db:"is_suspended"`
	ConsecutivePayments int       `db:"consecutive_payments"`
	UpdatedAt           time.Time `db:"updated_at"`
}

// AvailableHeadroom returns how much more credit can still be approved
// before the account hits its ceiling.
func (a *CreditAccount) AvailableHeadroom() int64 {
	return a.CreditLimit - a.ApprovedCredit
}
