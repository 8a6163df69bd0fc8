package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository persists notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, userType string, limit, offset int) ([]Notification, int, error)
	CountUnread(ctx context.Context, userID uuid.UUID, userType string) (int, error)
	// MarkAsRead is idempotent: marking an already-read row is a no-op
	// success, only a missing row errors.
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates notification repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx2, `
		INSERT INTO notifications (id, user_id, user_type, type, message, is_read, created_at)
		VALUES (:id, :user_id, :user_type, :type, :message, :is_read, :created_at)
	`, n)
	if err != nil {
		return fmt.Errorf("%w: insert notification", ErrInternal)
	}
	return nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, userType string, limit, offset int) ([]Notification, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	err := r.db.GetContext(ctx2, &total, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND user_type = $2
	`, userID, userType)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count notifications", ErrInternal)
	}

	var out []Notification
	err = r.db.SelectContext(ctx2, &out, `
		SELECT * FROM notifications
		WHERE user_id = $1 AND user_type = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, userType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list notifications", ErrInternal)
	}

	return out, total, nil
}

func (r *repository) CountUnread(ctx context.Context, userID uuid.UUID, userType string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND user_type = $2 AND is_read = false
	`, userID, userType)
	if err != nil {
		return 0, fmt.Errorf("%w: count unread", ErrInternal)
	}
	return count, nil
}

func (r *repository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		UPDATE notifications
		SET is_read = true, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("%w: mark as read", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
