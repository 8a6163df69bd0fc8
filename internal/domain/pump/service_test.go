package pump_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/renjith-irohub/petronix-api/internal/domain/pump"
	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/pkg/stripe"
)

type fakeRepo struct {
	pumps     map[uuid.UUID]*pump.Pump
	reps      map[uuid.UUID]*pump.SalesRep
	subs      map[uuid.UUID]*pump.Subscription
	decisions int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pumps: make(map[uuid.UUID]*pump.Pump),
		reps:  make(map[uuid.UUID]*pump.SalesRep),
		subs:  make(map[uuid.UUID]*pump.Subscription),
	}
}

func (r *fakeRepo) Create(_ context.Context, p *pump.Pump) error {
	cp := *p
	r.pumps[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*pump.Pump, error) {
	p, ok := r.pumps[id]
	if !ok {
		return nil, pump.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]pump.Pump, error) {
	var out []pump.Pump
	for _, p := range r.pumps {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListPending(_ context.Context) ([]pump.Pump, error) {
	var out []pump.Pump
	for _, p := range r.pumps {
		if p.Status == pump.StatusPendingApproval {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateDecision(_ context.Context, p *pump.Pump) error {
	stored, ok := r.pumps[p.ID]
	if !ok {
		return pump.ErrNotFound
	}
	if stored.Status != pump.StatusPendingApproval {
		return pump.ErrAlreadyDecided
	}
	r.decisions++
	cp := *p
	r.pumps[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Nearby(_ context.Context, _, _, _ float64, _ int) ([]pump.NearbyPump, error) {
	return nil, nil
}

func (r *fakeRepo) CreateSalesRep(_ context.Context, rep *pump.SalesRep) error {
	cp := *rep
	r.reps[rep.ID] = &cp
	return nil
}

func (r *fakeRepo) ListActiveSalesReps(_ context.Context, ownerID uuid.UUID) ([]pump.SalesRep, error) {
	var out []pump.SalesRep
	for _, rep := range r.reps {
		if rep.OwnerID == ownerID && rep.IsActive {
			out = append(out, *rep)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeactivateSalesRep(_ context.Context, ownerID, repID uuid.UUID) error {
	rep, ok := r.reps[repID]
	if !ok || rep.OwnerID != ownerID || !rep.IsActive {
		return pump.ErrRepNotFound
	}
	rep.IsActive = false
	return nil
}

func (r *fakeRepo) IsActiveRep(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, rep := range r.reps {
		if rep.UserID == userID && rep.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateSubscription(_ context.Context, sub *pump.Subscription) error {
	cp := *sub
	r.subs[sub.ID] = &cp
	return nil
}

func (r *fakeRepo) GetSubscriptionByID(_ context.Context, id uuid.UUID) (*pump.Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return nil, pump.ErrSubscriptionNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *fakeRepo) GetActiveSubscription(_ context.Context, pumpID uuid.UUID, now time.Time) (*pump.Subscription, error) {
	for _, sub := range r.subs {
		if sub.PumpID == pumpID && sub.Status == pump.SubscriptionActive && sub.ExpiresAt.After(now) {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, pump.ErrSubscriptionNotFound
}

func (r *fakeRepo) ActivateSubscription(_ context.Context, id uuid.UUID) error {
	sub, ok := r.subs[id]
	if !ok || sub.Status != pump.SubscriptionPending {
		return pump.ErrSubscriptionNotPending
	}
	sub.Status = pump.SubscriptionActive
	sub.StartedAt = sql.NullTime{Time: time.Now(), Valid: true}
	return nil
}

type fakeUsers struct {
	created []*user.User
	deleted []uuid.UUID
	failOn  string
}

func (u *fakeUsers) Create(_ context.Context, usr *user.User) error {
	if u.failOn == usr.Email {
		return user.ErrEmailConflict
	}
	u.created = append(u.created, usr)
	return nil
}

func (u *fakeUsers) GetByID(_ context.Context, _ uuid.UUID) (*user.User, error) { return nil, nil }
func (u *fakeUsers) GetByEmail(_ context.Context, _ string) (*user.User, error) { return nil, nil }
func (u *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	u.deleted = append(u.deleted, id)
	return nil
}

type fakeNotifier struct {
	approved []uuid.UUID
	rejected []uuid.UUID
}

func (n *fakeNotifier) PumpApproved(_ context.Context, ownerID uuid.UUID, _ string) {
	n.approved = append(n.approved, ownerID)
}

func (n *fakeNotifier) PumpRejected(_ context.Context, ownerID uuid.UUID, _, _ string) {
	n.rejected = append(n.rejected, ownerID)
}

type fakePayments struct {
	lastParams stripe.CreateIntentParams

	// intentStatus is what GetPaymentIntent reports for pi_test.
	intentStatus string
	retrievals   int
}

func (p *fakePayments) CreatePaymentIntent(_ context.Context, params stripe.CreateIntentParams) (*stripe.PaymentIntent, error) {
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

func setup(t *testing.T) (*pump.Service, *fakeRepo, *fakeUsers, *fakeNotifier, *fakePayments) {
	t.Helper()
	repo := newFakeRepo()
	users := &fakeUsers{}
	notifier := &fakeNotifier{}
	payments := &fakePayments{}
	return pump.NewService(repo, users, notifier, payments), repo, users, notifier, payments
}

func registerPump(t *testing.T, service *pump.Service, ownerID uuid.UUID) *pump.Pump {
	t.Helper()
	p, err := service.CreatePump(context.Background(), ownerID, pump.CreatePumpRequest{
		Name:      "Highway Fuels",
		Address:   "NH 47, Kochi",
		Latitude:  9.9312,
		Longitude: 76.2673,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestCreatePumpStartsPending(t *testing.T) {
	service, _, _, _, _ := setup(t)

	p := registerPump(t, service, uuid.New())
	if p.Status != pump.StatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", p.Status)
	}
}

func TestApprovePumpExactlyOnce(t *testing.T) {
	service, repo, _, notifier, _ := setup(t)
	ownerID := uuid.New()
	p := registerPump(t, service, ownerID)

	approved, err := service.Approve(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.Status != pump.StatusApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if len(notifier.approved) != 1 || notifier.approved[0] != ownerID {
		t.Fatal("expected owner notified of approval")
	}

	if _, err := service.Approve(context.Background(), p.ID); !errors.Is(err, pump.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if _, err := service.Reject(context.Background(), p.ID, "duplicate"); !errors.Is(err, pump.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if repo.decisions != 1 {
		t.Fatalf("expected exactly 1 persisted decision, got %d", repo.decisions)
	}
}

func TestRejectPumpRequiresReason(t *testing.T) {
	service, _, _, notifier, _ := setup(t)
	p := registerPump(t, service, uuid.New())

	if _, err := service.Reject(context.Background(), p.ID, ""); !errors.Is(err, pump.ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}

	rejected, err := service.Reject(context.Background(), p.ID, "no trade license")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.RejectionReason.String != "no trade license" {
		t.Fatalf("expected reason recorded, got %q", rejected.RejectionReason.String)
	}
	if len(notifier.rejected) != 1 {
		t.Fatalf("expected 1 rejection notification, got %d", len(notifier.rejected))
	}
}

func TestNearbyRejectsBadCoords(t *testing.T) {
	service, _, _, _, _ := setup(t)

	for _, c := range [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}} {
		if _, err := service.Nearby(context.Background(), c[0], c[1], 5); !errors.Is(err, pump.ErrInvalidCoords) {
			t.Fatalf("coords %v: expected ErrInvalidCoords, got %v", c, err)
		}
	}
}

func TestAddSalesRepRollsBackUserOnFailure(t *testing.T) {
	repo := newFakeRepo()
	users := &fakeUsers{}
	service := pump.NewService(failingRepRepo{repo}, users, nil, nil)

	_, err := service.AddSalesRep(context.Background(), uuid.New(), pump.AddSalesRepRequest{
		Email:     "rep@example.com",
		Password:  "password123",
		FirstName: "Anu",
		LastName:  "Thomas",
	})
	if err == nil {
		t.Fatal("expected error from rep creation")
	}
	if len(users.deleted) != 1 {
		t.Fatalf("expected orphan user rolled back, got %d deletions", len(users.deleted))
	}
}

func TestRemoveSalesRepScopedToOwner(t *testing.T) {
	service, repo, _, _, _ := setup(t)
	ownerID := uuid.New()

	rep, err := service.AddSalesRep(context.Background(), ownerID, pump.AddSalesRepRequest{
		Email:     "rep@example.com",
		Password:  "password123",
		FirstName: "Anu",
		LastName:  "Thomas",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := service.RemoveSalesRep(context.Background(), uuid.New(), rep.ID); !errors.Is(err, pump.ErrRepNotFound) {
		t.Fatalf("expected ErrRepNotFound for foreign owner, got %v", err)
	}

	if err := service.RemoveSalesRep(context.Background(), ownerID, rep.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.reps[rep.ID].IsActive {
		t.Fatal("expected rep deactivated")
	}
}

type failingRepRepo struct {
	*fakeRepo
}

func (failingRepRepo) CreateSalesRep(_ context.Context, _ *pump.SalesRep) error {
	return errors.New("insert failed")
}

func approvePump(t *testing.T, service *pump.Service, p *pump.Pump) {
	t.Helper()
	if _, err := service.Approve(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSubscribeCreatesPendingSubscription(t *testing.T) {
	service, repo, _, _, payments := setup(t)
	ownerID := uuid.New()
	p := registerPump(t, service, ownerID)
	approvePump(t, service, p)

	sub, clientSecret, err := service.Subscribe(context.Background(), ownerID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sub.Status != pump.SubscriptionPending {
		t.Fatalf("expected pending subscription, got %s", sub.Status)
	}
	if clientSecret != "pi_test_secret" {
		t.Fatalf("expected client secret returned, got %q", clientSecret)
	}
	if payments.lastParams.Amount != pump.MonthlyFee {
		t.Fatalf("expected intent for %d paise, got %d", pump.MonthlyFee, payments.lastParams.Amount)
	}
	if repo.subs[sub.ID].PaymentIntentID != "pi_test" {
		t.Fatal("expected intent id recorded on the subscription")
	}
}

func TestSubscribeRequiresApprovedOwnPump(t *testing.T) {
	service, _, _, _, _ := setup(t)
	ownerID := uuid.New()
	p := registerPump(t, service, ownerID)

	if _, _, err := service.Subscribe(context.Background(), ownerID, p.ID); !errors.Is(err, pump.ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved for pending pump, got %v", err)
	}

	approvePump(t, service, p)
	if _, _, err := service.Subscribe(context.Background(), uuid.New(), p.ID); !errors.Is(err, pump.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for foreign owner, got %v", err)
	}
}

func TestConfirmSubscriptionRequiresSucceededPayment(t *testing.T) {
	service, repo, _, _, payments := setup(t)
	ownerID := uuid.New()
	p := registerPump(t, service, ownerID)
	approvePump(t, service, p)

	sub, _, err := service.Subscribe(context.Background(), ownerID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The intent has not been paid yet.
	if _, err := service.ConfirmSubscription(context.Background(), ownerID, sub.ID); !errors.Is(err, pump.ErrPaymentNotCompleted) {
		t.Fatalf("expected ErrPaymentNotCompleted, got %v", err)
	}
	if repo.subs[sub.ID].Status != pump.SubscriptionPending {
		t.Fatal("unpaid subscription must stay pending")
	}

	payments.intentStatus = "succeeded"
	activated, err := service.ConfirmSubscription(context.Background(), ownerID, sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if activated.Status != pump.SubscriptionActive {
		t.Fatalf("expected active subscription, got %s", activated.Status)
	}

	// A second confirmation and a second subscribe are both refused.
	if _, err := service.ConfirmSubscription(context.Background(), ownerID, sub.ID); !errors.Is(err, pump.ErrSubscriptionNotPending) {
		t.Fatalf("expected ErrSubscriptionNotPending, got %v", err)
	}
	if _, _, err := service.Subscribe(context.Background(), ownerID, p.ID); !errors.Is(err, pump.ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestConfirmSubscriptionScopedToOwner(t *testing.T) {
	service, repo, _, _, payments := setup(t)
	ownerID := uuid.New()
	p := registerPump(t, service, ownerID)
	approvePump(t, service, p)

	sub, _, err := service.Subscribe(context.Background(), ownerID, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payments.intentStatus = "succeeded"
	if _, err := service.ConfirmSubscription(context.Background(), uuid.New(), sub.ID); !errors.Is(err, pump.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound for foreign owner, got %v", err)
	}
	if repo.subs[sub.ID].Status != pump.SubscriptionPending {
		t.Fatal("foreign owner must not activate the subscription")
	}
	if payments.retrievals != 0 {
		t.Fatalf("foreign owner must be refused before any payment check, saw %d retrievals", payments.retrievals)
	}
}
