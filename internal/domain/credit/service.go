package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
	"github.com/renjith-irohub/petronix-api/internal/pkg/stripe"
)

// Notifier publishes credit lifecycle notifications to customers
type Notifier interface {
	CreditApproved(ctx context.Context, customerID uuid.UUID, amount int64)
	CreditRejected(ctx context.Context, customerID uuid.UUID, amount int64, reason string)
	PaybackOverdue(ctx context.Context, customerID uuid.UUID, amount int64, daysOverdue int)
}

// PaymentIntents creates and retrieves payment intents for debt payback
type PaymentIntents interface {
	CreatePaymentIntent(ctx context.Context, params stripe.CreateIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
}

// Service is the credit ledger engine: it owns request validation, the
// approval state machine, derived summaries and the payback flow.
type Service struct {
	repo     Repository
	accounts customer.Repository
	notifier Notifier
	payments PaymentIntents
}

// NewService creates credit service
func NewService(repo Repository, accounts customer.Repository, notifier Notifier, payments PaymentIntents) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		notifier: notifier,
		payments: payments,
	}
}

// Request validates and records a new credit request. The transaction
// starts pending; callers re-fetch the list to observe it.
func (s *Service) Request(ctx context.Context, customerID uuid.UUID, amount float64) (*CreditTransaction, error) {
	acc, err := s.accounts.GetAccount(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if acc.IsSuspended {
		return nil, ErrAccountSuspended
	}

	paise, err := ValidateRequest(amount, acc)
	if err != nil {
		return nil, err
	}

	t := &CreditTransaction{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     paise,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	log.Info().
		Str("customer_id", customerID.String()).
		Str("transaction_id", t.ID.String()).
		Int64("amount", paise).
		Msg("credit request submitted")

	return t, nil
}

// Summary computes the customer's derived credit state plus history.
func (s *Service) Summary(ctx context.Context, customerID uuid.UUID, now time.Time) (Summary, []CreditTransaction, error) {
	credits, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return Summary{}, nil, err
	}

	debits, err := s.repo.ListCreditDebits(ctx, customerID)
	if err != nil {
		return Summary{}, nil, err
	}

	return Summarize(credits, debits, now), credits, nil
}

// Get returns a single credit transaction by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CreditTransaction, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPendingRequests lists credit requests awaiting an admin decision,
// oldest first.
func (s *Service) ListPendingRequests(ctx context.Context) ([]CreditTransaction, error) {
	return s.repo.ListPending(ctx)
}

// Approve transitions a pending request to approved and raises the
// account's authorized line. State is only changed after the database
// confirms the transition.
func (s *Service) Approve(ctx context.Context, adminID, id uuid.UUID) (*CreditTransaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Approve(adminID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateDecision(ctx, t); err != nil {
		return nil, err
	}

	if err := s.accounts.AddApprovedCredit(ctx, t.CustomerID, t.Amount); err != nil {
		log.Error().Err(err).
			Str("transaction_id", t.ID.String()).
			Msg("approved transaction but failed to raise account line")
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.CreditApproved(ctx, t.CustomerID, t.Amount)
	}

	log.Info().
		Str("transaction_id", t.ID.String()).
		Str("approved_by", adminID.String()).
		Msg("credit request approved")

	return t, nil
}

// Reject transitions a pending request to rejected with a reason.
func (s *Service) Reject(ctx context.Context, adminID, id uuid.UUID, reason string) (*CreditTransaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDecision(ctx, t); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.CreditRejected(ctx, t.CustomerID, t.Amount, reason)
	}

	log.Info().
		Str("transaction_id", t.ID.String()).
		Str("rejected_by", adminID.String()).
		Msg("credit request rejected")

	return t, nil
}

// PayDebt validates the payback target and creates a payment intent.
// The returned client secret lets the browser confirm the payment; the
// ledger is only marked repaid once the payment succeeds.
func (s *Service) PayDebt(ctx context.Context, customerID uuid.UUID, amount float64, transactionID uuid.UUID) (string, error) {
	if !money.IsPositive(amount) {
		return "", ErrInvalidAmount
	}

	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return "", err
	}
	if t.CustomerID != customerID || !t.Outstanding() {
		return "", ErrNotRepayable
	}

	paise := money.ToPaise(amount)
	if paise <= 0 || paise > t.Amount {
		return "", ErrInvalidAmount
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, stripe.CreateIntentParams{
		Amount:        paise,
		Currency:      "inr",
		TransactionID: t.ID.String(),
	})
	if err != nil {
		return "", err
	}

	// Remember which intent settles this grant so confirmation can
	// verify the payment actually went through.
	if err := s.repo.SetPaymentIntent(ctx, t.ID, intent.ID); err != nil {
		return "", err
	}

	return intent.ClientSecret, nil
}

// ConfirmRepayment marks a grant repaid after the payment provider
// reports success. The caller must own the grant and the intent started
// at pay-debt time must have succeeded; the browser's word alone never
// erases a debt. An on-time payback bumps the consecutive counter; a
// suspension is lifted once nothing overdue remains.
func (s *Service) ConfirmRepayment(ctx context.Context, customerID, transactionID uuid.UUID, now time.Time) error {
	t, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if t.CustomerID != customerID || !t.Outstanding() {
		return ErrNotRepayable
	}
	if !t.PaymentIntentID.Valid {
		return ErrPaymentNotCompleted
	}

	intent, err := s.payments.GetPaymentIntent(ctx, t.PaymentIntentID.String)
	if err != nil {
		return err
	}
	if !intent.Succeeded() {
		return ErrPaymentNotCompleted
	}

	if err := s.repo.MarkRepaid(ctx, t.ID); err != nil {
		return err
	}

	if !PaybackStatus(grantTime(t), now).IsOverdue {
		if err := s.accounts.RecordOnTimePayment(ctx, t.CustomerID); err != nil {
			log.Error().Err(err).Str("customer_id", t.CustomerID.String()).Msg("failed to record on-time payment")
		}
	}

	overdue, err := s.customerHasOverdue(ctx, t.CustomerID, now)
	if err == nil && !overdue {
		if err := s.accounts.SetSuspended(ctx, t.CustomerID, false); err != nil {
			log.Error().Err(err).Str("customer_id", t.CustomerID.String()).Msg("failed to lift suspension")
		}
	}

	log.Info().Str("transaction_id", t.ID.String()).Msg("credit repaid")
	return nil
}

func (s *Service) customerHasOverdue(ctx context.Context, customerID uuid.UUID, now time.Time) (bool, error) {
	credits, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return false, err
	}
	for i := range credits {
		t := &credits[i]
		if t.Outstanding() && PaybackStatus(grantTime(t), now).IsOverdue {
			return true, nil
		}
	}
	return false, nil
}

// SweepOverdue suspends accounts whose outstanding grants are overdue
// beyond policy and notifies the affected customers.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time, suspendAfterDays int) error {
	outstanding, err := s.repo.ListOutstanding(ctx)
	if err != nil {
		return err
	}

	for i := range outstanding {
		t := &outstanding[i]
		info := PaybackStatus(grantTime(t), now)
		if !info.IsOverdue {
			continue
		}

		if s.notifier != nil {
			s.notifier.PaybackOverdue(ctx, t.CustomerID, t.Amount, info.OverdueDays)
		}

		if info.OverdueDays >= suspendAfterDays {
			if err := s.accounts.SetSuspended(ctx, t.CustomerID, true); err != nil {
				log.Error().Err(err).Str("customer_id", t.CustomerID.String()).Msg("failed to suspend overdue account")
				continue
			}
			log.Warn().
				Str("customer_id", t.CustomerID.String()).
				Int("overdue_days", info.OverdueDays).
				Msg("account suspended for overdue repayment")
		}
	}

	return nil
}
