package admin

import (
	"time"

	"github.com/google/uuid"
)

// CustomerRow is one entry of the back-office customer table
type CustomerRow struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Email               string    `db:"email" json:"email"`
	FirstName           string    `db:"first_name" json:"firstName"`
	LastName            string    `db:"last_name" json:"lastName"`
	ApprovedCredit      int64     `db:"approved_credit" json:"-"`
	CreditLimit         int64     `db:"credit_limit" json:"-"`
	IsSuspended         bool      `db:"is_suspended" json:"isSuspended"`
	ConsecutivePayments int       `db:"consecutive_payments" json:"consecutivePayments"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}

// CustomerResponse adds rupee amounts to a customer row
type CustomerResponse struct {
	CustomerRow
	ApprovedCredit float64 `json:"approvedCredit"`
	CreditLimit    float64 `json:"creditLimit"`
}

// DailyCreditTotal is one date bucket of approved credit volume
type DailyCreditTotal struct {
	Day   time.Time `db:"day" json:"day"`
	Total int64     `db:"total" json:"-"`
	Count int64     `db:"count" json:"count"`
}

// DailyCreditTotalResponse carries the rupee total
type DailyCreditTotalResponse struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// ReminderRequest targets one customer for a payment reminder
type ReminderRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
}
