package customer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository defines credit account data access
type Repository interface {
	CreateAccount(ctx context.Context, acc *CreditAccount) error
	GetAccount(ctx context.Context, customerID uuid.UUID) (*CreditAccount, error)
	AddApprovedCredit(ctx context.Context, customerID uuid.UUID, amount int64) error
	SetSuspended(ctx context.Context, customerID uuid.UUID, suspended bool) error
	RecordOnTimePayment(ctx context.Context, customerID uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates credit account repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateAccount(ctx context.Context, acc *CreditAccount) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO credit_accounts (customer_id, pin_hash, approved_credit, credit_limit, payment_cycle_days, is_suspended, consecutive_payments, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, acc.CustomerID, acc.PINHash, acc.ApprovedCredit, acc.CreditLimit, acc.PaymentCycleDays, acc.IsSuspended, acc.ConsecutivePayments, acc.UpdatedAt)
	return err
}

func (r *repository) GetAccount(ctx context.Context, customerID uuid.UUID) (*CreditAccount, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var acc CreditAccount
	err := r.db.GetContext(ctx2, &acc, `SELECT * FROM credit_accounts WHERE customer_id = $1`, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountMissing
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) AddApprovedCredit(ctx context.Context, customerID uuid.UUID, amount int64) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE credit_accounts
		SET approved_credit = approved_credit + $2, updated_at = NOW()
		WHERE customer_id = $1
	`, customerID, amount)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountMissing
	}
	return nil
}

func (r *repository) SetSuspended(ctx context.Context, customerID uuid.UUID, suspended bool) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE credit_accounts SET is_suspended = $2, updated_at = NOW() WHERE customer_id = $1
	`, customerID, suspended)
	return err
}

func (r *repository) RecordOnTimePayment(ctx context.Context, customerID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE credit_accounts
		SET consecutive_payments = consecutive_payments + 1, updated_at = NOW()
		WHERE customer_id = $1
	`, customerID)
	return err
}
