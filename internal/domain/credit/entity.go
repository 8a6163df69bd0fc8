package credit

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the approval state of a credit request.
// pending transitions to exactly one of approved or rejected; both are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CreditTransaction is one credit grant request. Amount is paise.
// Approved rows are immutable except for IsRepaid.
type CreditTransaction struct {
	ID              uuid.UUID      `db:"id"`
	CustomerID      uuid.UUID      `db:"customer_id"`
	Amount          int64          `db:"amount"`
	Status          Status         `db:"status"`
	ApprovedBy      uuid.NullUUID  `db:"approved_by"`
	ApprovedAt      sql.NullTime   `db:"approved_at"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	IsRepaid        bool           `db:"is_repaid"`
	// PaymentIntentID is set when the customer starts a payback; the
	// grant is only marked repaid after that intent succeeds.
	PaymentIntentID sql.NullString `db:"payment_intent_id"`
	CreatedAt       time.Time      `db:"created_at"`
}

// Approve moves the transaction from pending to approved, recording the
// approver and timestamp. Returns ErrAlreadyDecided from a terminal state.
func (t *CreditTransaction) Approve(adminID uuid.UUID, now time.Time) error {
	if t.Status != StatusPending {
		return ErrAlreadyDecided
	}
	t.Status = StatusApproved
	t.ApprovedBy = uuid.NullUUID{UUID: adminID, Valid: true}
	t.ApprovedAt = sql.NullTime{Time: now, Valid: true}
	return nil
}

// Reject moves the transaction from pending to rejected. A non-empty
// reason is required.
func (t *CreditTransaction) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	if t.Status != StatusPending {
		return ErrAlreadyDecided
	}
	t.Status = StatusRejected
	t.RejectionReason = sql.NullString{String: reason, Valid: true}
	return nil
}

// Outstanding reports whether this grant still counts against the
// customer's payback obligations.
func (t *CreditTransaction) Outstanding() bool {
	return t.Status == StatusApproved && !t.IsRepaid
}
