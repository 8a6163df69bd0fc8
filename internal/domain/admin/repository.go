package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 5 * time.Second

// Repository runs the back-office queries
type Repository interface {
	ListCustomers(ctx context.Context, limit, offset int) ([]CustomerRow, int, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerRow, error)
	CustomerCount(ctx context.Context) (int, error)
	DailyCreditTotals(ctx context.Context, since time.Time) ([]DailyCreditTotal, error)
	// OutstandingDebt sums a customer's approved, unrepaid grants and
	// returns the oldest grant time for overdue math.
	OutstandingDebt(ctx context.Context, customerID uuid.UUID) (int64, time.Time, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates admin repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const customerColumns = `
	u.id, u.email, u.first_name, u.last_name, u.created_at,
	a.approved_credit, a.credit_limit, a.is_suspended, a.consecutive_payments
`

func (r *repository) ListCustomers(ctx context.Context, limit, offset int) ([]CustomerRow, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.CustomerCount(ctx2)
	if err != nil {
		return nil, 0, err
	}

	var out []CustomerRow
	err = r.db.SelectContext(ctx2, &out, `
		SELECT `+customerColumns+`
		FROM users u
		JOIN credit_accounts a ON a.customer_id = u.id
		WHERE u.role = 'customer'
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list customers", ErrInternal)
	}

	return out, total, nil
}

func (r *repository) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerRow, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row CustomerRow
	err := r.db.GetContext(ctx2, &row, `
		SELECT `+customerColumns+`
		FROM users u
		JOIN credit_accounts a ON a.customer_id = u.id
		WHERE u.role = 'customer' AND u.id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("%w: get customer", ErrInternal)
	}
	return &row, nil
}

func (r *repository) CustomerCount(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `SELECT COUNT(*) FROM users WHERE role = 'customer'`)
	if err != nil {
		return 0, fmt.Errorf("%w: customer count", ErrInternal)
	}
	return count, nil
}

func (r *repository) DailyCreditTotals(ctx context.Context, since time.Time) ([]DailyCreditTotal, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var out []DailyCreditTotal
	err := r.db.SelectContext(ctx2, &out, `
		SELECT
			DATE_TRUNC('day', approved_at) AS day,
			COALESCE(SUM(amount), 0) AS total,
			COUNT(*) AS count
		FROM credit_transactions
		WHERE status = 'approved' AND approved_at >= $1
		GROUP BY day
		ORDER BY day ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("%w: daily credit totals", ErrInternal)
	}
	return out, nil
}

func (r *repository) OutstandingDebt(ctx context.Context, customerID uuid.UUID) (int64, time.Time, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row struct {
		Total  sql.NullInt64 `db:"total"`
		Oldest sql.NullTime  `db:"oldest"`
	}
	err := r.db.GetContext(ctx2, &row, `
		SELECT
			SUM(amount) AS total,
			MIN(COALESCE(approved_at, created_at)) AS oldest
		FROM credit_transactions
		WHERE customer_id = $1 AND status = 'approved' AND is_repaid = false
	`, customerID)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: outstanding debt", ErrInternal)
	}
	if !row.Total.Valid || row.Total.Int64 == 0 {
		return 0, time.Time{}, ErrNothingOutstanding
	}
	return row.Total.Int64, row.Oldest.Time, nil
}
