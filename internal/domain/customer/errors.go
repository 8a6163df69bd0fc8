package customer

import "errors"

var (
	ErrNotFound       = errors.New("customer not found")
	ErrEmailConflict  = errors.New("email already registered")
	ErrAccountMissing = errors.New("credit account not found")
)
