package pump

import (
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
)

// RegisterOwnerRequest creates a pump owner account
type RegisterOwnerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// CreatePumpRequest registers a new station for approval
type CreatePumpRequest struct {
	Name      string  `json:"name" validate:"required,min=2"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	RejectionReason string `json:"rejectionReason" validate:"required,min=1"`
}

// AddSalesRepRequest creates a sales rep under the calling owner
type AddSalesRepRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	PumpID    string `json:"pumpId,omitempty"`
}

// SubscribeRequest starts a listing subscription for a pump
type SubscribeRequest struct {
	PumpID string `json:"pumpId" validate:"required,uuid"`
}

// ConfirmSubscriptionRequest activates a paid subscription
type ConfirmSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId" validate:"required,uuid"`
}

// SubscriptionResponse is the API shape of a listing subscription
type SubscriptionResponse struct {
	ID           uuid.UUID  `json:"id"`
	PumpID       uuid.UUID  `json:"pumpId"`
	Amount       float64    `json:"amount"`
	Status       string     `json:"status"`
	ClientSecret string     `json:"clientSecret,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	ExpiresAt    time.Time  `json:"expiresAt"`
}

// PumpResponse is the API shape of a station
type PumpResponse struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"ownerId"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NearbyPumpResponse adds the computed distance
type NearbyPumpResponse struct {
	PumpResponse
	DistanceKm float64 `json:"distanceKm"`
}

// SalesRepResponse is the API shape of a sales rep
type SalesRepResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PumpID    *string   `json:"pumpId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPumpResponse converts a pump to its API shape
func NewPumpResponse(p *Pump) PumpResponse {
	resp := PumpResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
	if p.RejectionReason.Valid {
		resp.RejectionReason = p.RejectionReason.String
	}
	return resp
}

// NewPumpResponses converts a slice of pumps
func NewPumpResponses(ps []Pump) []PumpResponse {
	out := make([]PumpResponse, 0, len(ps))
	for i := range ps {
		out = append(out, NewPumpResponse(&ps[i]))
	}
	return out
}

// NewNearbyPumpResponses converts nearby rows with distances
func NewNearbyPumpResponses(ps []NearbyPump) []NearbyPumpResponse {
	out := make([]NearbyPumpResponse, 0, len(ps))
	for i := range ps {
		out = append(out, NearbyPumpResponse{
			PumpResponse: NewPumpResponse(&ps[i].Pump),
			DistanceKm:   ps[i].DistanceKm,
		})
	}
	return out
}

// NewSubscriptionResponse converts a subscription to its API shape
func NewSubscriptionResponse(sub *Subscription, clientSecret string) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:           sub.ID,
		PumpID:       sub.PumpID,
		Amount:       money.Rupees(sub.Amount),
		Status:       string(sub.Status),
		ClientSecret: clientSecret,
		ExpiresAt:    sub.ExpiresAt,
	}
	if sub.StartedAt.Valid {
		t := sub.StartedAt.Time
		resp.StartedAt = &t
	}
	return resp
}

// NewSalesRepResponse converts a sales rep to its API shape
func NewSalesRepResponse(rep *SalesRep) SalesRepResponse {
	resp := SalesRepResponse{
		ID:        rep.ID,
		Name:      rep.Name,
		Email:     rep.Email,
		IsActive:  rep.IsActive,
		CreatedAt: rep.CreatedAt,
	}
	if rep.PumpID.Valid {
		id := rep.PumpID.UUID.String()
		resp.PumpID = &id
	}
	return resp
}

// NewSalesRepResponses converts a slice of sales reps
func NewSalesRepResponses(reps []SalesRep) []SalesRepResponse {
	out := make([]SalesRepResponse, 0, len(reps))
	for i := range reps {
		out = append(out, NewSalesRepResponse(&reps[i]))
	}
	return out
}
