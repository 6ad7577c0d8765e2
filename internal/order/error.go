package order

import "errors"

var (
	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cannot create an order from an empty cart")

	// -- Authorization --
	ErrForbidden = errors.New("not authorized to view this order")

	// -- Validation & Input --
	ErrInvalidStatus = errors.New("invalid order status")
)
