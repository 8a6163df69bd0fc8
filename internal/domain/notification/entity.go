package notification

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Type represents notification severity
type Type string

const (
	TypeInfo    Type = "info"    // Neutral updates (request submitted, reminder)
	TypeSuccess Type = "success" // Approvals, completed payments
	TypeWarning Type = "warning" // Rejections, overdue payback
)

// Notification is a per-user message surfaced by the polling endpoints
type Notification struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	UserID    uuid.UUID    `db:"user_id" json:"userId"`
	UserType  string       `db:"user_type" json:"userType"`
	Type      Type         `db:"type" json:"type"`
	Message   string       `db:"message" json:"message"`
	IsRead    bool         `db:"is_read" json:"isRead"`
	ReadAt    sql.NullTime `db:"read_at" json:"-"`
	CreatedAt time.Time    `db:"created_at" json:"createdAt"`
}
