package credit

import "errors"

var (
	// ErrInvalidAmount is returned when an amount is not a positive finite number
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrLimitExceeded is returned when a request would push the approved
	// line past the account's credit limit
	ErrLimitExceeded = errors.New("requested amount exceeds the credit limit")

	// ErrAlreadyDecided is returned on a second approve/reject of the same request
	ErrAlreadyDecided = errors.New("credit request already decided")

	// ErrMissingReason is returned when a rejection carries no reason
	ErrMissingReason = errors.New("rejection reason is required")

	// ErrNotFound is returned when the credit transaction does not exist
	ErrNotFound = errors.New("credit transaction not found")

	// ErrNotRepayable is returned when pay-debt targets a transaction that
	// is not an outstanding approved grant
	ErrNotRepayable = errors.New("transaction is not repayable")

	// ErrPaymentNotCompleted is returned when a repayment is confirmed
	// before its payment intent has succeeded
	ErrPaymentNotCompleted = errors.New("payment has not been completed")

	// ErrAccountSuspended is returned when the account is suspended for overdue repayment
	ErrAccountSuspended = errors.New("credit account is suspended")

	ErrInternal = errors.New("internal error")
)
