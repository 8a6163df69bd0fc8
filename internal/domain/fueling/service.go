package fueling

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
	"github.com/renjith-irohub/petronix-api/internal/pkg/password"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// RepRoster answers whether a sales rep is still on an owner's
// active roster. Owners deactivate reps without deleting the login,
// so the JWT role alone is not enough to accept a sale.
type RepRoster interface {
	IsActiveRep(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service authorizes point-of-sale fueling charges
type Service struct {
	repo     Repository
	users    user.Repository
	accounts customer.Repository
	reps     RepRoster
}

// NewService creates fueling service
func NewService(repo Repository, users user.Repository, accounts customer.Repository, reps RepRoster) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		accounts: accounts,
		reps:     reps,
	}
}

// RecordSale validates and records a fueling charge. Input checks run
// strictly before any lookup: a malformed PIN or amount never reaches
// storage. The balance decision for credit sales belongs to the
// database transaction, not to anything precomputed here.
func (s *Service) RecordSale(ctx context.Context, salesRepID uuid.UUID, body FuelSaleBody) (*FuelingTransaction, error) {
	if !pinPattern.MatchString(body.Pin) {
		return nil, ErrInvalidPin
	}
	if !money.IsPositive(body.FuelAmount) {
		return nil, ErrInvalidAmount
	}

	active, err := s.reps.IsActiveRep(ctx, salesRepID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrRepInactive
	}

	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(body.CustomerEmail))
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != user.RoleCustomer {
		return nil, ErrCustomerNotFound
	}

	acc, err := s.accounts.GetAccount(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	if !password.Verify(body.Pin, acc.PINHash) {
		return nil, ErrPinMismatch
	}

	t := &FuelingTransaction{
		ID:            uuid.New(),
		CustomerID:    u.ID,
		SalesRepID:    uuid.NullUUID{UUID: salesRepID, Valid: true},
		FuelType:      FuelType(body.FuelType),
		Amount:        money.ToPaise(body.FuelAmount),
		PaymentType:   PaymentType(body.PaymentType),
		PaymentStatus: StatusSucceeded,
		CreatedAt:     time.Now(),
	}
	if body.PumpID != "" {
		pumpID, err := uuid.Parse(body.PumpID)
		if err == nil {
			t.PumpID = uuid.NullUUID{UUID: pumpID, Valid: true}
		}
	}

	switch t.PaymentType {
	case PaymentCredit:
		if acc.IsSuspended {
			return nil, ErrAccountSuspended
		}
		if err := s.repo.AuthorizeCreditDebit(ctx, t); err != nil {
			return nil, err
		}
	default:
		if err := s.repo.CreateDirect(ctx, t); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("transaction_id", t.ID.String()).
		Str("customer_id", t.CustomerID.String()).
		Str("payment_type", string(t.PaymentType)).
		Int64("amount", t.Amount).
		Msg("fuel sale recorded")

	return t, nil
}

// CustomerHistory lists a customer's own fueling charges.
func (s *Service) CustomerHistory(ctx context.Context, customerID uuid.UUID) ([]FuelingTransaction, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// RecentPayments lists succeeded charges from the last hour.
func (s *Service) RecentPayments(ctx context.Context) ([]FuelingTransaction, error) {
	return s.repo.ListRecent(ctx, time.Now().Add(-time.Hour))
}

// TodayBySalesRep lists a sales rep's charges since local midnight.
func (s *Service) TodayBySalesRep(ctx context.Context, salesRepID uuid.UUID) ([]FuelingTransaction, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.ListBySalesRepSince(ctx, salesRepID, midnight)
}

// FuelMix aggregates succeeded charges by fuel type over the window.
func (s *Service) FuelMix(ctx context.Context, window time.Duration) ([]FuelTypeTotal, error) {
	return s.repo.FuelTypeTotals(ctx, time.Now().Add(-window))
}
