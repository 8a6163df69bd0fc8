package fueling

import (
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// FuelSaleBody is the point-of-sale request recorded by a sales rep
type FuelSaleBody struct {
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	FuelAmount    float64 `json:"fuelAmount" validate:"required"`
	FuelType      string  `json:"fuelType" validate:"required,fuel_type"`
	PaymentType   string  `json:"paymentType" validate:"required,payment_type"`
	Pin           string  `json:"pin" validate:"required"`
	PumpID        string  `json:"pumpId,omitempty"`
}

// FuelSaleResponse confirms the charged amount in rupees
type FuelSaleResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	ChargedAmount float64   `json:"chargedAmount"`
	PaymentType   string    `json:"paymentType"`
	PaymentStatus string    `json:"paymentStatus"`
}

// TransactionResponse is a fueling history row
type TransactionResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customerId"`
	PumpID        *string   `json:"pumpId,omitempty"`
	FuelType      string    `json:"fuelType"`
	Amount        float64   `json:"amount"`
	PaymentType   string    `json:"paymentType"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FuelTypeTotalResponse is one slice of the fuel mix breakdown
type FuelTypeTotalResponse struct {
	FuelType string  `json:"fuelType"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// NewTransactionResponse converts a ledger row to its API shape
func NewTransactionResponse(t *FuelingTransaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		FuelType:      string(t.FuelType),
		Amount:        money.Rupees(t.Amount),
		PaymentType:   string(t.PaymentType),
		PaymentStatus: string(t.PaymentStatus),
		CreatedAt:     t.CreatedAt,
	}
	if t.PumpID.Valid {
		id := t.PumpID.UUID.String()
		resp.PumpID = &id
	}
	return resp
}

// NewTransactionResponses converts a slice of ledger rows
func NewTransactionResponses(ts []FuelingTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for i := range ts {
		out = append(out, NewTransactionResponse(&ts[i]))
	}
	return out
}

// NewFuelTypeTotalResponses converts aggregate rows
func NewFuelTypeTotalResponses(totals []FuelTypeTotal) []FuelTypeTotalResponse {
	out := make([]FuelTypeTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, FuelTypeTotalResponse{
			FuelType: string(t.FuelType),
			Total:    money.Rupees(t.Total),
			Count:    t.Count,
		})
	}
	return out
}
