package admin

import "errors"

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrNothingOutstanding = errors.New("customer has no outstanding credit")
	ErrInternal           = errors.New("internal error")
)
