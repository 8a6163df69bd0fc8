package credit_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/domain/credit"
	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/pkg/stripe"
)

type fakeRepo struct {
	byID      map[uuid.UUID]*credit.CreditTransaction
	created   []*credit.CreditTransaction
	decisions int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*credit.CreditTransaction)}
}

func (r *fakeRepo) put(t *credit.CreditTransaction) {
	cp := *t
	r.byID[t.ID] = &cp
}

func (r *fakeRepo) Create(_ context.Context, t *credit.CreditTransaction) error {
	r.created = append(r.created, t)
	r.put(t)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*credit.CreditTransaction, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, credit.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]credit.CreditTransaction, error) {
	var out []credit.CreditTransaction
	for _, t := range r.byID {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]credit.CreditTransaction, error) {
	var out []credit.CreditTransaction
	for _, t := range r.byID {
		if t.Status == credit.StatusPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListOutstanding(_ context.Context) ([]credit.CreditTransaction, error) {
	var out []credit.CreditTransaction
	for _, t := range r.byID {
		if t.Outstanding() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateDecision(_ context.Context, t *credit.CreditTransaction) error {
	stored, ok := r.byID[t.ID]
	if !ok {
		return credit.ErrNotFound
	}
	if stored.Status != credit.StatusPending {
		return credit.ErrAlreadyDecided
	}
	r.decisions++
	r.put(t)
	return nil
}

func (r *fakeRepo) SetPaymentIntent(_ context.Context, id uuid.UUID, intentID string) error {
	stored, ok := r.byID[id]
	if !ok || !stored.Outstanding() {
		return credit.ErrNotRepayable
	}
	stored.PaymentIntentID = sql.NullString{String: intentID, Valid: true}
	return nil
}

func (r *fakeRepo) MarkRepaid(_ context.Context, id uuid.UUID) error {
	stored, ok := r.byID[id]
	if !ok || !stored.Outstanding() {
		return credit.ErrNotRepayable
	}
	stored.IsRepaid = true
	return nil
}

func (r *fakeRepo) ListCreditDebits(_ context.Context, _ uuid.UUID) ([]credit.Debit, error) {
	return nil, nil
}

type fakeAccounts struct {
	accounts  map[uuid.UUID]*customer.CreditAccount
	suspended map[uuid.UUID]bool
	onTime    int
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		accounts:  make(map[uuid.UUID]*customer.CreditAccount),
		suspended: make(map[uuid.UUID]bool),
	}
}

func (a *fakeAccounts) CreateAccount(_ context.Context, acc *customer.CreditAccount) error {
	a.accounts[acc.CustomerID] = acc
	return nil
}

func (a *fakeAccounts) GetAccount(_ context.Context, customerID uuid.UUID) (*customer.CreditAccount, error) {
	acc, ok := a.accounts[customerID]
	if !ok {
		return nil, customer.ErrAccountMissing
	}
	return acc, nil
}

func (a *fakeAccounts) AddApprovedCredit(_ context.Context, customerID uuid.UUID, amount int64) error {
	acc, ok := a.accounts[customerID]
	if !ok {
		return customer.ErrAccountMissing
	}
	acc.ApprovedCredit += amount
	return nil
}

func (a *fakeAccounts) SetSuspended(_ context.Context, customerID uuid.UUID, suspended bool) error {
	a.suspended[customerID] = suspended
	if acc, ok := a.accounts[customerID]; ok {
		acc.IsSuspended = suspended
	}
	return nil
}

func (a *fakeAccounts) RecordOnTimePayment(_ context.Context, _ uuid.UUID) error {
	a.onTime++
	return nil
}

type fakeNotifier struct {
	approved []uuid.UUID
	rejected []uuid.UUID
	overdue  []uuid.UUID
}

func (n *fakeNotifier) CreditApproved(_ context.Context, customerID uuid.UUID, _ int64) {
	n.approved = append(n.approved, customerID)
}

func (n *fakeNotifier) CreditRejected(_ context.Context, customerID uuid.UUID, _ int64, _ string) {
	n.rejected = append(n.rejected, customerID)
}

func (n *fakeNotifier) PaybackOverdue(_ context.Context, customerID uuid.UUID, _ int64, _ int) {
	n.overdue = append(n.overdue, customerID)
}

type fakePayments struct {
	lastParams stripe.CreateIntentParams
	err        error

	// intentStatus is what GetPaymentIntent reports for pi_test.
	intentStatus string
	retrievals   int
}

func (p *fakePayments) CreatePaymentIntent(_ context.Context, params stripe.CreateIntentParams) (*stripe.PaymentIntent, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.lastParams = params
	return &stripe.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Amount:       params.Amount,
		Currency:     params.Currency,
		Status:       "requires_payment_method",
	}, nil
}

func (p *fakePayments) GetPaymentIntent(_ context.Context, id string) (*stripe.PaymentIntent, error) {
	p.retrievals++
	status := p.intentStatus
	if status == "" {
		status = "requires_payment_method"
	}
	return &stripe.PaymentIntent{ID: id, Status: status}, nil
}

func setup(t *testing.T) (*credit.Service, *fakeRepo, *fakeAccounts, *fakeNotifier, *fakePayments, uuid.UUID) {
	t.Helper()

	repo := newFakeRepo()
	accounts := newFakeAccounts()
	notifier := &fakeNotifier{}
	payments := &fakePayments{}

	customerID := uuid.New()
	accounts.accounts[customerID] = &customer.CreditAccount{
		CustomerID:       customerID,
		CreditLimit:      customer.DefaultCreditLimit,
		PaymentCycleDays: customer.DefaultPaymentCycleDays,
	}

	return credit.NewService(repo, accounts, notifier, payments), repo, accounts, notifier, payments, customerID
}

func TestRequestCreatesPendingTransaction(t *testing.T) {
	service, repo, _, _, _, customerID := setup(t)

	tx, err := service.Request(context.Background(), customerID, 1500.50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Status != credit.StatusPending {
		t.Fatalf("expected pending status, got %s", tx.Status)
	}
	if tx.Amount != 1500_50 {
		t.Fatalf("expected 150050 paise, got %d", tx.Amount)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created transaction, got %d", len(repo.created))
	}
}

func TestRequestRejectsInvalidAmounts(t *testing.T) {
	service, _, _, _, _, customerID := setup(t)

	for _, amount := range []float64{0, -1, -250.75} {
		if _, err := service.Request(context.Background(), customerID, amount); !errors.Is(err, credit.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestRequestEnforcesCreditLimit(t *testing.T) {
	service, _, accounts, _, _, customerID := setup(t)
	accounts.accounts[customerID].ApprovedCredit = customer.DefaultCreditLimit - 100_00

	if _, err := service.Request(context.Background(), customerID, 101.00); !errors.Is(err, credit.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}

	// Exactly the remaining headroom is allowed.
	if _, err := service.Request(context.Background(), customerID, 100.00); err != nil {
		t.Fatalf("expected request at headroom to succeed, got %v", err)
	}
}

func TestRequestRejectsSuspendedAccount(t *testing.T) {
	service, _, accounts, _, _, customerID := setup(t)
	accounts.accounts[customerID].IsSuspended = true

	if _, err := service.Request(context.Background(), customerID, 100); !errors.Is(err, credit.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
}

func TestApproveTransitionsExactlyOnce(t *testing.T) {
	service, _, accounts, notifier, _, customerID := setup(t)
	adminID := uuid.New()

	tx, err := service.Request(context.Background(), customerID, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	approved, err := service.Approve(context.Background(), adminID, tx.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != credit.StatusApproved {
		t.Fatalf("expected approved status, got %s", approved.Status)
	}
	if !approved.ApprovedBy.Valid || approved.ApprovedBy.UUID != adminID {
		t.Fatal("expected approver to be recorded")
	}
	if accounts.accounts[customerID].ApprovedCredit != 500_00 {
		t.Fatalf("expected account line raised to 50000, got %d", accounts.accounts[customerID].ApprovedCredit)
	}
	if len(notifier.approved) != 1 {
		t.Fatalf("expected 1 approval notification, got %d", len(notifier.approved))
	}

	// A second decision on the same transaction must lose.
	if _, err := service.Approve(context.Background(), adminID, tx.ID); !errors.Is(err, credit.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := service.Reject(context.Background(), adminID, tx.ID, "late"); !errors.Is(err, credit.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	service, repo, accounts, notifier, _, customerID := setup(t)
	adminID := uuid.New()

	tx, err := service.Request(context.Background(), customerID, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := service.Reject(context.Background(), adminID, tx.ID, "  "); !errors.Is(err, credit.ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}

	rejected, err := service.Reject(context.Background(), adminID, tx.ID, "suspected fraud")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.Status != credit.StatusRejected {
		t.Fatalf("expected rejected status, got %s", rejected.Status)
	}
	if rejected.RejectionReason.String != "suspected fraud" {
		t.Fatalf("expected rejection reason recorded, got %q", rejected.RejectionReason.String)
	}
	if accounts.accounts[customerID].ApprovedCredit != 0 {
		t.Fatal("rejection must not raise the account line")
	}
	if len(notifier.rejected) != 1 {
		t.Fatalf("expected 1 rejection notification, got %d", len(notifier.rejected))
	}
	if repo.decisions != 1 {
		t.Fatalf("expected exactly 1 persisted decision, got %d", repo.decisions)
	}
}

func TestPayDebtCreatesPaymentIntent(t *testing.T) {
	service, _, _, _, payments, customerID := setup(t)
	adminID := uuid.New()

	tx, _ := service.Request(context.Background(), customerID, 800)
	if _, err := service.Approve(context.Background(), adminID, tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	secret, err := service.PayDebt(context.Background(), customerID, 800, tx.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_test_secret" {
		t.Fatalf("expected client secret from payment provider, got %q", secret)
	}
	if payments.lastParams.Amount != 800_00 {
		t.Fatalf("expected intent for 80000 paise, got %d", payments.lastParams.Amount)
	}
}

func TestPayDebtRejectsForeignAndUndecidedTransactions(t *testing.T) {
	service, _, _, _, _, customerID := setup(t)

	tx, _ := service.Request(context.Background(), customerID, 800)

	// Still pending, nothing to repay.
	if _, err := service.PayDebt(context.Background(), customerID, 800, tx.ID); !errors.Is(err, credit.ErrNotRepayable) {
		t.Fatalf("expected ErrNotRepayable for pending transaction, got %v", err)
	}

	if _, err := service.Approve(context.Background(), uuid.New(), tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another customer cannot pay this debt.
	if _, err := service.PayDebt(context.Background(), uuid.New(), 800, tx.ID); !errors.Is(err, credit.ErrNotRepayable) {
		t.Fatalf("expected ErrNotRepayable for foreign customer, got %v", err)
	}
}

func TestConfirmRepaymentOnTime(t *testing.T) {
	service, repo, accounts, _, payments, customerID := setup(t)
	payments.intentStatus = "succeeded"

	tx, _ := service.Request(context.Background(), customerID, 300)
	if _, err := service.Approve(context.Background(), uuid.New(), tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.PayDebt(context.Background(), customerID, 300, tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.ConfirmRepayment(context.Background(), customerID, tx.ID, time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), tx.ID)
	if !stored.IsRepaid {
		t.Fatal("expected transaction marked repaid")
	}
	if payments.retrievals != 1 {
		t.Fatalf("expected intent checked with the provider once, got %d", payments.retrievals)
	}
	if accounts.onTime != 1 {
		t.Fatalf("expected 1 on-time payment recorded, got %d", accounts.onTime)
	}
	if accounts.suspended[customerID] {
		t.Fatal("expected suspension lifted after full repayment")
	}

	if err := service.ConfirmRepayment(context.Background(), customerID, tx.ID, time.Now()); !errors.Is(err, credit.ErrNotRepayable) {
		t.Fatalf("expected ErrNotRepayable on double repayment, got %v", err)
	}
}

func TestConfirmRepaymentRejectsForeignCustomer(t *testing.T) {
	service, repo, _, _, payments, customerID := setup(t)
	payments.intentStatus = "succeeded"

	tx, _ := service.Request(context.Background(), customerID, 300)
	if _, err := service.Approve(context.Background(), uuid.New(), tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.PayDebt(context.Background(), customerID, 300, tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another customer cannot erase this debt, even knowing the id.
	if err := service.ConfirmRepayment(context.Background(), uuid.New(), tx.ID, time.Now()); !errors.Is(err, credit.ErrNotRepayable) {
		t.Fatalf("expected ErrNotRepayable for foreign customer, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), tx.ID)
	if stored.IsRepaid {
		t.Fatal("foreign confirmation must not mark the grant repaid")
	}
	if payments.retrievals != 0 {
		t.Fatalf("foreign confirmation must not reach the provider, got %d retrievals", payments.retrievals)
	}
}

func TestConfirmRepaymentRequiresSucceededPayment(t *testing.T) {
	service, repo, _, _, payments, customerID := setup(t)

	tx, _ := service.Request(context.Background(), customerID, 300)
	if _, err := service.Approve(context.Background(), uuid.New(), tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No payback was ever started: there is no intent to verify.
	if err := service.ConfirmRepayment(context.Background(), customerID, tx.ID, time.Now()); !errors.Is(err, credit.ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted without an intent, got %v", err)
	}
	if payments.retrievals != 0 {
		t.Fatalf("expected no provider call without an intent, got %d", payments.retrievals)
	}

	// An intent exists but the payment never went through.
	if _, err := service.PayDebt(context.Background(), customerID, 300, tx.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.ConfirmRepayment(context.Background(), customerID, tx.ID, time.Now()); !errors.Is(err, credit.ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted for unpaid intent, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), tx.ID)
	if stored.IsRepaid {
		t.Fatal("grant must stay outstanding until the payment succeeds")
	}
}

func TestSweepOverdueSuspendsAndNotifies(t *testing.T) {
	service, repo, accounts, notifier, _, customerID := setup(t)
	now := time.Now()

	// Overdue past the suspension grace period.
	old := approvedGrant(100_00, now.Add(-40*24*time.Hour))
	old.CustomerID = customerID
	repo.put(&old)

	// Overdue but inside the grace period: notified, not suspended.
	gracedCustomer := uuid.New()
	accounts.accounts[gracedCustomer] = &customer.CreditAccount{CustomerID: gracedCustomer, CreditLimit: customer.DefaultCreditLimit}
	graced := approvedGrant(100_00, now.Add(-32*24*time.Hour))
	graced.CustomerID = gracedCustomer
	repo.put(&graced)

	if err := service.SweepOverdue(context.Background(), now, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !accounts.suspended[customerID] {
		t.Fatal("expected account 10 days overdue to be suspended")
	}
	if accounts.suspended[gracedCustomer] {
		t.Fatal("expected account 2 days overdue to stay active")
	}
	if len(notifier.overdue) != 2 {
		t.Fatalf("expected 2 overdue notifications, got %d", len(notifier.overdue))
	}
}
