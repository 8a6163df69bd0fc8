package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a platform role (matches user_role enum)
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleSalesRep Role = "salesrep"
	RoleAdmin    Role = "admin"
)

// User represents an account of any role
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// FullName returns the display name for the user
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin returns true if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lowercases and trims an email so lookups match the
// form stored at registration.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidRole checks if role is a known platform role
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleCustomer, RoleOwner, RoleSalesRep, RoleAdmin:
		return true
	}
	return false
}
