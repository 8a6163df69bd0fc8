package fueling_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/domain/fueling"
	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/password"
)

type fakeRepo struct {
	balance      int64
	transactions []*fueling.FuelingTransaction
	touched      bool
}

func (r *fakeRepo) AuthorizeCreditDebit(_ context.Context, t *fueling.FuelingTransaction) error {
	r.touched = true
	if r.balance < t.Amount {
		return fueling.ErrInsufficientCredit
	}
	r.balance -= t.Amount
	r.transactions = append(r.transactions, t)
	return nil
}

func (r *fakeRepo) CreateDirect(_ context.Context, t *fueling.FuelingTransaction) error {
	r.touched = true
	r.transactions = append(r.transactions, t)
	return nil
}

func (r *fakeRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]fueling.FuelingTransaction, error) {
	var out []fueling.FuelingTransaction
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListRecent(_ context.Context, since time.Time) ([]fueling.FuelingTransaction, error) {
	var out []fueling.FuelingTransaction
	for _, t := range r.transactions {
		if !t.CreatedAt.Before(since) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBySalesRepSince(_ context.Context, salesRepID uuid.UUID, since time.Time) ([]fueling.FuelingTransaction, error) {
	var out []fueling.FuelingTransaction
	for _, t := range r.transactions {
		if t.SalesRepID.Valid && t.SalesRepID.UUID == salesRepID && !t.CreatedAt.Before(since) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) FuelTypeTotals(_ context.Context, _ time.Time) ([]fueling.FuelTypeTotal, error) {
	return nil, nil
}

type fakeUsers struct {
	byEmail map[string]*user.User
	lookups int
}

func (u *fakeUsers) Create(_ context.Context, usr *user.User) error {
	u.byEmail[usr.Email] = usr
	return nil
}

func (u *fakeUsers) GetByID(_ context.Context, _ uuid.UUID) (*user.User, error) {
	return nil, nil
}

func (u *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u.lookups++
	return u.byEmail[email], nil
}

func (u *fakeUsers) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type fakeAccounts struct {
	accounts map[uuid.UUID]*customer.CreditAccount
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

func (a *fakeAccounts) AddApprovedCredit(_ context.Context, _ uuid.UUID, _ int64) error { return nil }
func (a *fakeAccounts) SetSuspended(_ context.Context, _ uuid.UUID, _ bool) error       { return nil }
func (a *fakeAccounts) RecordOnTimePayment(_ context.Context, _ uuid.UUID) error        { return nil }

type fakeReps struct {
	inactive map[uuid.UUID]bool
	checks   int
}

func (f *fakeReps) IsActiveRep(_ context.Context, userID uuid.UUID) (bool, error) {
	f.checks++
	return !f.inactive[userID], nil
}

func setup(t *testing.T, balance int64) (*fueling.Service, *fakeRepo, *fakeUsers, string) {
	t.Helper()

	pinHash, err := password.Hash("4321")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}

	customerID := uuid.New()
	email := "driver@example.com"

	users := &fakeUsers{byEmail: map[string]*user.User{
		email: {ID: customerID, Email: email, Role: user.RoleCustomer},
	}}
	accounts := &fakeAccounts{accounts: map[uuid.UUID]*customer.CreditAccount{
		customerID: {CustomerID: customerID, PINHash: pinHash, CreditLimit: customer.DefaultCreditLimit},
	}}
	repo := &fakeRepo{balance: balance}
	reps := &fakeReps{inactive: map[uuid.UUID]bool{}}

	return fueling.NewService(repo, users, accounts, reps), repo, users, email
}

func saleBody(email, pin string, amount float64, paymentType string) fueling.FuelSaleBody {
	return fueling.FuelSaleBody{
		CustomerEmail: email,
		FuelAmount:    amount,
		FuelType:      "petrol",
		PaymentType:   paymentType,
		Pin:           pin,
	}
}

func TestRecordSaleMalformedPinFailsBeforeAnyLookup(t *testing.T) {
	service, repo, users, email := setup(t, 1000_00)

	for _, pin := range []string{"12a4", "123", "12345", "", " 1234"} {
		_, err := service.RecordSale(context.Background(), uuid.New(), saleBody(email, pin, 100, "credit"))
		if !errors.Is(err, fueling.ErrInvalidPin) {
			t.Fatalf("pin %q: expected ErrInvalidPin, got %v", pin, err)
		}
	}

	if users.lookups != 0 {
		t.Fatalf("malformed pin must fail before any lookup, saw %d lookups", users.lookups)
	}
	if repo.touched {
		t.Fatal("malformed pin must fail before touching storage")
	}
}

func TestRecordSaleInvalidAmountFailsBeforeAnyLookup(t *testing.T) {
	service, repo, users, email := setup(t, 1000_00)

	for _, amount := range []float64{0, -50} {
		_, err := service.RecordSale(context.Background(), uuid.New(), saleBody(email, "4321", amount, "credit"))
		if !errors.Is(err, fueling.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if users.lookups != 0 || repo.touched {
		t.Fatal("invalid amount must fail before any lookup or storage touch")
	}
}

func TestRecordSaleWrongPin(t *testing.T) {
	service, repo, _, email := setup(t, 1000_00)

	_, err := service.RecordSale(context.Background(), uuid.New(), saleBody(email, "0000", 100, "credit"))
	if !errors.Is(err, fueling.ErrPinMismatch) {
		t.Fatalf("expected ErrPinMismatch, got %v", err)
	}
	if repo.touched {
		t.Fatal("wrong pin must not reach storage")
	}
}

func TestRecordSaleUnknownCustomer(t *testing.T) {
	service, _, _, _ := setup(t, 1000_00)

	_, err := service.RecordSale(context.Background(), uuid.New(), saleBody("nobody@example.com", "4321", 100, "credit"))
	if !errors.Is(err, fueling.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestRecordSaleCreditDebitsBalance(t *testing.T) {
	service, repo, _, email := setup(t, 500_00)
	salesRepID := uuid.New()

	tx, err := service.RecordSale(context.Background(), salesRepID, saleBody(email, "4321", 200, "credit"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Amount != 200_00 {
		t.Fatalf("expected 20000 paise charged, got %d", tx.Amount)
	}
	if tx.PaymentStatus != fueling.StatusSucceeded {
		t.Fatalf("expected succeeded status, got %s", tx.PaymentStatus)
	}
	if !tx.SalesRepID.Valid || tx.SalesRepID.UUID != salesRepID {
		t.Fatal("expected sales rep recorded on the transaction")
	}
	if repo.balance != 300_00 {
		t.Fatalf("expected remaining balance 30000, got %d", repo.balance)
	}
}

func TestRecordSaleInsufficientCredit(t *testing.T) {
	service, repo, _, email := setup(t, 100_00)

	_, err := service.RecordSale(context.Background(), uuid.New(), saleBody(email, "4321", 150, "credit"))
	if !errors.Is(err, fueling.ErrInsufficientCredit) {
		t.Fatalf("expected ErrInsufficientCredit, got %v", err)
	}
	if len(repo.transactions) != 0 {
		t.Fatal("declined sale must not be recorded")
	}
}

func TestRecordSaleDirectBypassesCreditBalance(t *testing.T) {
	service, repo, _, email := setup(t, 0)

	tx, err := service.RecordSale(context.Background(), uuid.New(), saleBody(email, "4321", 300, "direct"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.PaymentType != fueling.PaymentDirect {
		t.Fatalf("expected direct payment, got %s", tx.PaymentType)
	}
	if repo.balance != 0 {
		t.Fatal("direct sale must not touch the credit balance")
	}
}

func TestRecordSaleDeactivatedRepIsRejected(t *testing.T) {
	pinHash, err := password.Hash("4321")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}

	customerID := uuid.New()
	email := "driver@example.com"
	users := &fakeUsers{byEmail: map[string]*user.User{
		email: {ID: customerID, Email: email, Role: user.RoleCustomer},
	}}
	accounts := &fakeAccounts{accounts: map[uuid.UUID]*customer.CreditAccount{
		customerID: {CustomerID: customerID, PINHash: pinHash, CreditLimit: customer.DefaultCreditLimit},
	}}
	repo := &fakeRepo{balance: 1000_00}

	salesRepID := uuid.New()
	reps := &fakeReps{inactive: map[uuid.UUID]bool{salesRepID: true}}
	service := fueling.NewService(repo, users, accounts, reps)

	_, err = service.RecordSale(context.Background(), salesRepID, saleBody(email, "4321", 100, "credit"))
	if !errors.Is(err, fueling.ErrRepInactive) {
		t.Fatalf("expected ErrRepInactive, got %v", err)
	}
	if reps.checks != 1 {
		t.Fatalf("expected one roster check, got %d", reps.checks)
	}
	if users.lookups != 0 {
		t.Fatalf("deactivated rep must fail before any customer lookup, saw %d lookups", users.lookups)
	}
	if repo.touched {
		t.Fatal("deactivated rep must not reach storage")
	}
}

func TestRecordSaleSuspendedAccountCannotUseCredit(t *testing.T) {
	pinHash, err := password.Hash("4321")
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}

	customerID := uuid.New()
	email := "driver@example.com"
	users := &fakeUsers{byEmail: map[string]*user.User{
		email: {ID: customerID, Email: email, Role: user.RoleCustomer},
	}}
	accounts := &fakeAccounts{accounts: map[uuid.UUID]*customer.CreditAccount{
		customerID: {CustomerID: customerID, PINHash: pinHash, IsSuspended: true},
	}}
	repo := &fakeRepo{balance: 1000_00}
	service := fueling.NewService(repo, users, accounts, &fakeReps{inactive: map[uuid.UUID]bool{}})

	_, err = service.RecordSale(context.Background(), uuid.New(), saleBody(email, "4321", 100, "credit"))
	if !errors.Is(err, fueling.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}
	if repo.touched {
		t.Fatal("suspended account must not reach storage")
	}
}
