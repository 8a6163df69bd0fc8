package fueling

import "errors"

var (
	ErrInvalidPin         = errors.New("pin must be exactly four digits")
	ErrPinMismatch        = errors.New("pin does not match")
	ErrInvalidAmount      = errors.New("fuel amount must be positive")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrRepInactive        = errors.New("sales rep is no longer active")
	ErrAccountSuspended   = errors.New("customer account is suspended")
	ErrInsufficientCredit = errors.New("insufficient credit balance")
	ErrInternal           = errors.New("internal error")
)
