package notification

import "errors"

var (
	ErrNotFound = errors.New("notification not found")
	ErrInternal = errors.New("internal error")
)
