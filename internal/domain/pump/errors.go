package pump

import "errors"

var (
	ErrNotFound       = errors.New("pump not found")
	ErrAlreadyDecided = errors.New("pump registration already decided")
	ErrMissingReason  = errors.New("rejection reason required")
	ErrNotOwner       = errors.New("pump does not belong to this owner")
	ErrRepNotFound    = errors.New("sales rep not found")
	ErrInvalidCoords  = errors.New("invalid coordinates")

	ErrNotApproved            = errors.New("pump is not approved")
	ErrAlreadySubscribed      = errors.New("pump already has an active subscription")
	ErrSubscriptionNotFound   = errors.New("subscription not found")
	ErrSubscriptionNotPending = errors.New("subscription is not pending")
	ErrPaymentNotCompleted    = errors.New("payment has not been completed")

	ErrInternal = errors.New("internal error")
)
