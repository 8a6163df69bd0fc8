package pump

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository persists pumps and sales rep assignments
type Repository interface {
	Create(ctx context.Context, p *Pump) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pump, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Pump, error)
	ListPending(ctx context.Context) ([]Pump, error)
	// UpdateDecision persists an approve/reject transition, guarded so
	// only a still-pending row is touched.
	UpdateDecision(ctx context.Context, p *Pump) error
	// Nearby returns approved pumps within radiusKm of the point,
	// closest first.
	Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyPump, error)

	CreateSalesRep(ctx context.Context, rep *SalesRep) error
	ListActiveSalesReps(ctx context.Context, ownerID uuid.UUID) ([]SalesRep, error)
	DeactivateSalesRep(ctx context.Context, ownerID, repID uuid.UUID) error
	// IsActiveRep reports whether the user still has an active roster
	// row. Deactivated reps keep their login but fail this check.
	IsActiveRep(ctx context.Context, userID uuid.UUID) (bool, error)

	CreateSubscription(ctx context.Context, sub *Subscription) error
	GetSubscriptionByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	GetActiveSubscription(ctx context.Context, pumpID uuid.UUID, now time.Time) (*Subscription, error)
	// ActivateSubscription flips a pending row to active, guarded so a
	// second confirmation is a no-op failure.
	ActivateSubscription(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates pump repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Pump) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO pumps (id, owner_id, name, address, latitude, longitude, status, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :address, :latitude, :longitude, :status, :created_at, :updated_at)
	`, p)
	if err != nil {
		return fmt.Errorf("%w: insert pump", ErrInternal)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Pump, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Pump
	err := r.db.GetContext(ctx2, &p, `SELECT * FROM pumps WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get pump", ErrInternal)
	}
	return &p, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Pump, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []Pump
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM pumps WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list pumps by owner", ErrInternal)
	}
	return out, nil
}

func (r *repository) ListPending(ctx context.Context) ([]Pump, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []Pump
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM pumps WHERE status = 'pending_approval' ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list pending pumps", ErrInternal)
	}
	return out, nil
}

func (r *repository) UpdateDecision(ctx context.Context, p *Pump) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE pumps
		SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending_approval'
	`, p.ID, p.Status, p.RejectionReason)
	if err != nil {
		return fmt.Errorf("%w: update pump decision", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrAlreadyDecided
	}
	return nil
}

func (r *repository) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyPump, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Haversine distance in kilometers, computed in SQL so the index
	// scan on status still applies before the trigonometry.
	var out []NearbyPump
	err := r.db.SelectContext(ctx2, &out, `
		SELECT *,
			6371 * 2 * ASIN(SQRT(
				POWER(SIN(RADIANS($1 - latitude) / 2), 2) +
				COS(RADIANS(latitude)) * COS(RADIANS($1)) *
				POWER(SIN(RADIANS($2 - longitude) / 2), 2)
			)) AS distance_km
		FROM pumps
		WHERE status = 'approved'
			AND 6371 * 2 * ASIN(SQRT(
				POWER(SIN(RADIANS($1 - latitude) / 2), 2) +
				COS(RADIANS(latitude)) * COS(RADIANS($1)) *
				POWER(SIN(RADIANS($2 - longitude) / 2), 2)
			)) <= $3
		ORDER BY distance_km ASC
		LIMIT $4
	`, lat, lng, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: nearby pumps", ErrInternal)
	}
	return out, nil
}

func (r *repository) CreateSalesRep(ctx context.Context, rep *SalesRep) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO sales_reps (id, user_id, owner_id, pump_id, name, email, is_active, created_at)
		VALUES (:id, :user_id, :owner_id, :pump_id, :name, :email, :is_active, :created_at)
	`, rep)
	if err != nil {
		return fmt.Errorf("%w: insert sales rep", ErrInternal)
	}
	return nil
}

func (r *repository) ListActiveSalesReps(ctx context.Context, ownerID uuid.UUID) ([]SalesRep, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []SalesRep
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM sales_reps
		WHERE owner_id = $1 AND is_active = true
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list sales reps", ErrInternal)
	}
	return out, nil
}

func (r *repository) IsActiveRep(ctx context.Context, userID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var active bool
	err := r.db.GetContext(ctx2, &active, `
		SELECT EXISTS(
			SELECT 1 FROM sales_reps WHERE user_id = $1 AND is_active = true
		)
	`, userID)
	if err != nil {
		return false, fmt.Errorf("%w: check sales rep active", ErrInternal)
	}
	return active, nil
}

func (r *repository) CreateSubscription(ctx context.Context, sub *Subscription) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO pump_subscriptions (id, pump_id, owner_id, amount, status, payment_intent_id, started_at, expires_at, created_at)
		VALUES (:id, :pump_id, :owner_id, :amount, :status, :payment_intent_id, :started_at, :expires_at, :created_at)
	`, sub)
	if err != nil {
		return fmt.Errorf("%w: insert subscription", ErrInternal)
	}
	return nil
}

func (r *repository) GetSubscriptionByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sub Subscription
	err := r.db.GetContext(ctx2, &sub, `SELECT * FROM pump_subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%w: get subscription", ErrInternal)
	}
	return &sub, nil
}

func (r *repository) GetActiveSubscription(ctx context.Context, pumpID uuid.UUID, now time.Time) (*Subscription, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sub Subscription
	err := r.db.GetContext(ctx2, &sub, `
		SELECT * FROM pump_subscriptions
		WHERE pump_id = $1 AND status = 'active' AND expires_at > $2
		ORDER BY expires_at DESC
		LIMIT 1
	`, pumpID, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("%w: get active subscription", ErrInternal)
	}
	return &sub, nil
}

func (r *repository) ActivateSubscription(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE pump_subscriptions
		SET status = 'active', started_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("%w: activate subscription", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrSubscriptionNotPending
	}
	return nil
}

func (r *repository) DeactivateSalesRep(ctx context.Context, ownerID, repID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE sales_reps SET is_active = false
		WHERE id = $1 AND owner_id = $2 AND is_active = true
	`, repID, ownerID)
	if err != nil {
		return fmt.Errorf("%w: deactivate sales rep", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrRepNotFound
	}
	return nil
}
