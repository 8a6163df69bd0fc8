package fueling

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository persists fueling transactions
type Repository interface {
	// AuthorizeCreditDebit inserts a succeeded credit debit if and only
	// if the customer's derived balance covers it. The check and the
	// insert happen in one transaction with the account row locked, so
	// concurrent sales cannot both pass on the same remaining balance.
	AuthorizeCreditDebit(ctx context.Context, t *FuelingTransaction) error
	CreateDirect(ctx context.Context, t *FuelingTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]FuelingTransaction, error)
	ListRecent(ctx context.Context, since time.Time) ([]FuelingTransaction, error)
	ListBySalesRepSince(ctx context.Context, salesRepID uuid.UUID, since time.Time) ([]FuelingTransaction, error)
	FuelTypeTotals(ctx context.Context, since time.Time) ([]FuelTypeTotal, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates fueling repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const insertQuery = `
	INSERT INTO fueling_transactions
		(id, customer_id, pump_id, sales_rep_id, fuel_type, amount, payment_type, payment_status, created_at)
	VALUES
		(:id, :customer_id, :pump_id, :sales_rep_id, :fuel_type, :amount, :payment_type, :payment_status, :created_at)
`

func (r *repository) AuthorizeCreditDebit(ctx context.Context, t *FuelingTransaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	// Lock the account row so concurrent debits serialize on it.
	var suspended bool
	err = tx.QueryRowContext(ctx2, `
		SELECT is_suspended FROM credit_accounts WHERE customer_id = $1 FOR UPDATE
	`, t.CustomerID).Scan(&suspended)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("%w: lock account row", ErrInternal)
	}
	if suspended {
		return ErrAccountSuspended
	}

	// Balance is derived from the ledger, never stored.
	var balance int64
	err = tx.QueryRowContext(ctx2, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM credit_transactions
				WHERE customer_id = $1 AND status = 'approved'), 0)
			-
			COALESCE((SELECT SUM(amount) FROM fueling_transactions
				WHERE customer_id = $1 AND payment_type = 'credit' AND payment_status = 'succeeded'), 0)
	`, t.CustomerID).Scan(&balance)
	if err != nil {
		return fmt.Errorf("%w: derive balance", ErrInternal)
	}

	if balance < t.Amount {
		return ErrInsufficientCredit
	}

	if _, err := tx.NamedExecContext(ctx2, insertQuery, t); err != nil {
		return fmt.Errorf("%w: insert fueling transaction", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *repository) CreateDirect(ctx context.Context, t *FuelingTransaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.NamedExecContext(ctx2, insertQuery, t); err != nil {
		return fmt.Errorf("%w: insert fueling transaction", ErrInternal)
	}
	return nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]FuelingTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []FuelingTransaction
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM fueling_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list by customer", ErrInternal)
	}
	return out, nil
}

func (r *repository) ListRecent(ctx context.Context, since time.Time) ([]FuelingTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []FuelingTransaction
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM fueling_transactions
		WHERE created_at >= $1 AND payment_status = 'succeeded'
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("%w: list recent", ErrInternal)
	}
	return out, nil
}

func (r *repository) ListBySalesRepSince(ctx context.Context, salesRepID uuid.UUID, since time.Time) ([]FuelingTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []FuelingTransaction
	err := r.db.SelectContext(ctx2, &out, `
		SELECT * FROM fueling_transactions
		WHERE sales_rep_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`, salesRepID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: list by sales rep", ErrInternal)
	}
	return out, nil
}

func (r *repository) FuelTypeTotals(ctx context.Context, since time.Time) ([]FuelTypeTotal, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []FuelTypeTotal
	err := r.db.SelectContext(ctx2, &out, `
		SELECT fuel_type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count
		FROM fueling_transactions
		WHERE payment_status = 'succeeded' AND created_at >= $1
		GROUP BY fuel_type
		ORDER BY total DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("%w: fuel type totals", ErrInternal)
	}
	return out, nil
}
