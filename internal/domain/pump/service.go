package pump

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/password"
	"github.com/renjith-irohub/petronix-api/internal/pkg/stripe"
)

// Notifier publishes pump lifecycle notifications to owners
type Notifier interface {
	PumpApproved(ctx context.Context, ownerID uuid.UUID, pumpName string)
	PumpRejected(ctx context.Context, ownerID uuid.UUID, pumpName, reason string)
}

// PaymentIntents creates and retrieves payment intents for listing fees
type PaymentIntents interface {
	CreatePaymentIntent(ctx context.Context, params stripe.CreateIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// Service owns station registration, the approval state machine,
// the nearby lookup, sales rep management and listing subscriptions.
type Service struct {
	repo     Repository
	users    user.Repository
	notifier Notifier
	payments PaymentIntents
}

// NewService creates pump service
func NewService(repo Repository, users user.Repository, notifier Notifier, payments PaymentIntents) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		payments: payments,
	}
}

// RegisterOwner creates a pump owner account.
func (s *Service) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (*user.User, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleOwner,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("owner_id", u.ID.String()).Msg("pump owner registered")
	return u, nil
}

// CreatePump registers a station for the calling owner. It starts
// pending and is invisible to customers until approved.
func (s *Service) CreatePump(ctx context.Context, ownerID uuid.UUID, req CreatePumpRequest) (*Pump, error) {
	now := time.Now()
	p := &Pump{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    StatusPendingApproval,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().Str("pump_id", p.ID.String()).Str("owner_id", ownerID.String()).Msg("pump registered")
	return p, nil
}

// ListByOwner lists the owner's own stations in every status.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Pump, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListPending lists registrations awaiting an admin decision.
func (s *Service) ListPending(ctx context.Context) ([]Pump, error) {
	return s.repo.ListPending(ctx)
}

// Approve transitions a pending registration to approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Pump, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Approve(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDecision(ctx, p); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PumpApproved(ctx, p.OwnerID, p.Name)
	}

	log.Info().Str("pump_id", p.ID.String()).Msg("pump approved")
	return p, nil
}

// Reject transitions a pending registration to rejected with a reason.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*Pump, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Reject(reason); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDecision(ctx, p); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PumpRejected(ctx, p.OwnerID, p.Name, reason)
	}

	log.Info().Str("pump_id", p.ID.String()).Msg("pump rejected")
	return p, nil
}

// Nearby finds approved stations around a point, closest first.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]NearbyPump, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoords
	}
	if radiusKm <= 0 {
		radiusKm = 10
	}
	return s.repo.Nearby(ctx, lat, lng, radiusKm, 50)
}

// AddSalesRep creates a sales rep login under the calling owner.
func (s *Service) AddSalesRep(ctx context.Context, ownerID uuid.UUID, req AddSalesRepRequest) (*SalesRep, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         user.RoleSalesRep,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	rep := &SalesRep{
		ID:        uuid.New(),
		UserID:    u.ID,
		OwnerID:   ownerID,
		Name:      u.FullName(),
		Email:     u.Email,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if req.PumpID != "" {
		if pumpID, err := uuid.Parse(req.PumpID); err == nil {
			rep.PumpID = uuid.NullUUID{UUID: pumpID, Valid: true}
		}
	}

	if err := s.repo.CreateSalesRep(ctx, rep); err != nil {
		// The login without its assignment row is unusable, drop it.
		if delErr := s.users.Delete(ctx, u.ID); delErr != nil {
			log.Error().Err(delErr).Str("user_id", u.ID.String()).Msg("failed to roll back sales rep user")
		}
		return nil, err
	}

	log.Info().Str("sales_rep_id", rep.ID.String()).Str("owner_id", ownerID.String()).Msg("sales rep added")
	return rep, nil
}

// ListActiveSalesReps lists the owner's active reps.
func (s *Service) ListActiveSalesReps(ctx context.Context, ownerID uuid.UUID) ([]SalesRep, error) {
	return s.repo.ListActiveSalesReps(ctx, ownerID)
}

// RemoveSalesRep deactivates a rep. The login stays but the fueling
// service checks the roster row and stops accepting their sales.
func (s *Service) RemoveSalesRep(ctx context.Context, ownerID, repID uuid.UUID) error {
	return s.repo.DeactivateSalesRep(ctx, ownerID, repID)
}

// Subscribe starts a monthly listing subscription for one of the
// owner's approved pumps. It creates a payment intent for the fee and
// records a pending subscription; the client secret goes back to the
// browser to collect the payment.
func (s *Service) Subscribe(ctx context.Context, ownerID, pumpID uuid.UUID) (*Subscription, string, error) {
	p, err := s.repo.GetByID(ctx, pumpID)
	if err != nil {
		return nil, "", err
	}
	if p.OwnerID != ownerID {
		return nil, "", ErrNotOwner
	}
	if p.Status != StatusApproved {
		return nil, "", ErrNotApproved
	}

	now := time.Now()
	if _, err := s.repo.GetActiveSubscription(ctx, pumpID, now); err == nil {
		return nil, "", ErrAlreadySubscribed
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, "", err
	}

	sub := &Subscription{
		ID:        uuid.New(),
		PumpID:    pumpID,
		OwnerID:   ownerID,
		Amount:    MonthlyFee,
		Status:    SubscriptionPending,
		ExpiresAt: now.AddDate(0, 1, 0),
		CreatedAt: now,
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, stripe.CreateIntentParams{
		Amount:        sub.Amount,
		Currency:      "inr",
		TransactionID: sub.ID.String(),
	})
	if err != nil {
		return nil, "", err
	}
	sub.PaymentIntentID = intent.ID

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, "", err
	}

	log.Info().Str("subscription_id", sub.ID.String()).Str("pump_id", pumpID.String()).Msg("pump subscription started")
	return sub, intent.ClientSecret, nil
}

// ConfirmSubscription activates a pending subscription after checking
// with the payment provider that its intent actually succeeded.
func (s *Service) ConfirmSubscription(ctx context.Context, ownerID, subscriptionID uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.OwnerID != ownerID {
		return nil, ErrSubscriptionNotFound
	}
	if sub.Status != SubscriptionPending {
		return nil, ErrSubscriptionNotPending
	}

	intent, err := s.payments.GetPaymentIntent(ctx, sub.PaymentIntentID)
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded() {
		return nil, ErrPaymentNotCompleted
	}

	if err := s.repo.ActivateSubscription(ctx, sub.ID); err != nil {
		return nil, err
	}
	sub.Status = SubscriptionActive

	log.Info().Str("subscription_id", sub.ID.String()).Msg("pump subscription activated")
	return sub, nil
}
