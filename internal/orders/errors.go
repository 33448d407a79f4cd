package orders

import "errors"

var (
	// ErrDenied means the caller does not own the requested resource.
	ErrDenied = errors.New("orders: access denied")

	// ErrNoOrders means the caller owns the customer but it has no
	// order rows yet. Distinct from ErrDenied on purpose.
	ErrNoOrders = errors.New("orders: no orders found")

	// ErrCheckFailed wraps an underlying query error during the
	// ownership check. Fails closed: never treated as Denied.
	ErrCheckFailed = errors.New("orders: ownership check failed")
)
