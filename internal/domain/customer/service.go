package customer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/password"
)

// Service handles customer registration and account access
type Service struct {
	repo     Repository
	userRepo user.Repository
}

// NewService creates customer service
func NewService(repo Repository, userRepo user.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

// Register creates a customer user together with an empty credit account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*ProfileResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)

	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailConflict
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	pinHash, err := password.Hash(req.Pin)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         user.RoleCustomer,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, err
	}

	acc := &CreditAccount{
		CustomerID:       u.ID,
		PINHash:          pinHash,
		ApprovedCredit:   0,
		CreditLimit:      DefaultCreditLimit,
		PaymentCycleDays: DefaultPaymentCycleDays,
		UpdatedAt:        now,
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		// Roll back the user row so the email is not stranded
		_ = s.userRepo.Delete(ctx, u.ID)
		return nil, err
	}

	log.Info().Str("customer_id", u.ID.String()).Msg("customer registered")

	return NewProfileResponse(u.ID, u.Email, u.FirstName, u.LastName, u.CreatedAt, acc), nil
}

// Profile returns the customer's profile with credit account standing
func (s *Service) Profile(ctx context.Context, customerID uuid.UUID) (*ProfileResponse, error) {
	u, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	acc, err := s.repo.GetAccount(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return NewProfileResponse(u.ID, u.Email, u.FirstName, u.LastName, u.CreatedAt, acc), nil
}
