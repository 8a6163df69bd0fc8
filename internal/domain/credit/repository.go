package credit

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

// Repository defines credit ledger data access
type Repository interface {
	Create(ctx context.Context, t *CreditTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]CreditTransaction, error)
	ListPending(ctx context.Context) ([]CreditTransaction, error)
	ListOutstanding(ctx context.Context) ([]CreditTransaction, error)
	// UpdateDecision persists an approve/reject transition. The row is
	// only touched while still pending, so a concurrent second decision
	// loses and surfaces ErrAlreadyDecided.
	UpdateDecision(ctx context.Context, t *CreditTransaction) error
	SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error
	MarkRepaid(ctx context.Context, id uuid.UUID) error
	ListCreditDebits(ctx context.Context, customerID uuid.UUID) ([]Debit, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates credit repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *CreditTransaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO credit_transactions (id, customer_id, amount, status, is_repaid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, t.ID, t.CustomerID, t.Amount, t.Status, t.IsRepaid, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert credit transaction", ErrInternal)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var t CreditTransaction
	err := r.db.GetContext(ctx2, &t, `SELECT * FROM credit_transactions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get credit transaction", ErrInternal)
	}
	return &t, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]CreditTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	transactions := make([]CreditTransaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT * FROM credit_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list credit transactions", ErrInternal)
	}
	return transactions, nil
}

func (r *repository) ListPending(ctx context.Context) ([]CreditTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	transactions := make([]CreditTransaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT * FROM credit_transactions
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list pending transactions", ErrInternal)
	}
	return transactions, nil
}

func (r *repository) ListOutstanding(ctx context.Context) ([]CreditTransaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	transactions := make([]CreditTransaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT * FROM credit_transactions
		WHERE status = 'approved' AND is_repaid = false
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list outstanding transactions", ErrInternal)
	}
	return transactions, nil
}

func (r *repository) UpdateDecision(ctx context.Context, t *CreditTransaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE credit_transactions
		SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5
		WHERE id = $1 AND status = 'pending'
	`, t.ID, t.Status, t.ApprovedBy, t.ApprovedAt, t.RejectionReason)
	if err != nil {
		return fmt.Errorf("%w: update decision", ErrInternal)
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

func (r *repository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE credit_transactions
		SET payment_intent_id = $2
		WHERE id = $1 AND status = 'approved' AND is_repaid = false
	`, id, intentID)
	if err != nil {
		return fmt.Errorf("%w: set payment intent", ErrInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotRepayable
	}
	return nil
}

func (r *repository) MarkRepaid(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE credit_transactions
		SET is_repaid = true
		WHERE id = $1 AND status = 'approved'
	`, id)
	if err != nil {
		return fmt.Errorf("%w: mark repaid", ErrInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotRepayable
	}
	return nil
}

func (r *repository) ListCreditDebits(ctx context.Context, customerID uuid.UUID) ([]Debit, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	debits := make([]Debit, 0)
	rows, err := r.db.QueryContext(ctx2, `
		SELECT amount, payment_type, payment_status
		FROM fueling_transactions
		WHERE customer_id = $1
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list fueling debits", ErrInternal)
	}
	defer rows.Close()

	for rows.Next() {
		var d Debit
		if err := rows.Scan(&d.Amount, &d.PaymentType, &d.PaymentStatus); err != nil {
			return nil, fmt.Errorf("%w: scan fueling debit", ErrInternal)
		}
		debits = append(debits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate fueling debits", ErrInternal)
	}
	return debits, nil
}
