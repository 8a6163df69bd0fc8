package pump

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status of a pump registration
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
)

// Pump is a fuel station registered by an owner. New registrations
// start pending and require an admin decision before going live.
type Pump struct {
	ID              uuid.UUID      `db:"id"`
	OwnerID         uuid.UUID      `db:"owner_id"`
	Name            string         `db:"name"`
	Address         string         `db:"address"`
	Latitude        float64        `db:"latitude"`
	Longitude       float64        `db:"longitude"`
	Status          Status         `db:"status"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// Approve moves the pump from pending to approved.
func (p *Pump) Approve() error {
	if p.Status != StatusPendingApproval {
		return ErrAlreadyDecided
	}
	p.Status = StatusApproved
	return nil
}

// Reject moves the pump from pending to rejected. A non-empty reason
// is required.
func (p *Pump) Reject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	if p.Status != StatusPendingApproval {
		return ErrAlreadyDecided
	}
	p.Status = StatusRejected
	p.RejectionReason = sql.NullString{String: reason, Valid: true}
	return nil
}

// NearbyPump is a pump row with its computed distance in kilometers
type NearbyPump struct {
	Pump
	DistanceKm float64 `db:"distance_km"`
}

// SubscriptionStatus of a pump listing subscription
type SubscriptionStatus string

const (
	SubscriptionPending SubscriptionStatus = "pending"
	SubscriptionActive  SubscriptionStatus = "active"
)

// MonthlyFee is the flat listing fee per pump, in paise.
const MonthlyFee int64 = 99900

// Subscription is a paid monthly listing for a pump. Rows start
// pending with a payment intent attached and become active only after
// that intent succeeds.
type Subscription struct {
	ID              uuid.UUID          `db:"id"`
	PumpID          uuid.UUID          `db:"pump_id"`
	OwnerID         uuid.UUID          `db:"owner_id"`
	Amount          int64              `db:"amount"`
	Status          SubscriptionStatus `db:"status"`
	PaymentIntentID string             `db:"payment_intent_id"`
	StartedAt       sql.NullTime       `db:"started_at"`
	ExpiresAt       time.Time          `db:"expires_at"`
	CreatedAt       time.Time          `db:"created_at"`
}

// SalesRep links a sales rep user to the owner who hired them
type SalesRep struct {
	ID        uuid.UUID     `db:"id"`
	UserID    uuid.UUID     `db:"user_id"`
	OwnerID   uuid.UUID     `db:"owner_id"`
	PumpID    uuid.NullUUID `db:"pump_id"`
	Name      string        `db:"name"`
	Email     string        `db:"email"`
	IsActive  bool          `db:"is_active"`
	CreatedAt time.Time     `db:"created_at"`
}
