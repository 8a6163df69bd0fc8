package fueling

import (
	"time"

	"github.com/google/uuid"
)

// FuelType is the dispensed product
type FuelType string

const (
	FuelPetrol FuelType = "petrol"
	FuelDiesel FuelType = "diesel"
	FuelCNG    FuelType = "cng"
)

// PaymentType distinguishes debits against credit from direct payments
type PaymentType string

const (
	PaymentCredit PaymentType = "credit"
	PaymentDirect PaymentType = "direct"
)

// PaymentStatus of a fueling charge
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusSucceeded PaymentStatus = "succeeded"
	StatusFailed    PaymentStatus = "failed"
)

// FuelingTransaction is a point-of-sale charge. Amount is paise.
// Once the payment status is finalized the row is immutable.
type FuelingTransaction struct {
	ID            uuid.UUID     `db:"id"`
	CustomerID    uuid.UUID     `db:"customer_id"`
	PumpID        uuid.NullUUID `db:"pump_id"`
	SalesRepID    uuid.NullUUID `db:"sales_rep_id"`
	FuelType      FuelType      `db:"fuel_type"`
	Amount        int64         `db:"amount"`
	PaymentType   PaymentType   `db:"payment_type"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
}

// FuelTypeTotal is an aggregate row for the fuel mix breakdown
type FuelTypeTotal struct {
	FuelType FuelType `db:"fuel_type"`
	Total    int64    `db:"total"`
	Count    int64    `db:"count"`
}
