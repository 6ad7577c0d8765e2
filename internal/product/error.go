package product

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")

	// -- Validation & Input --
	ErrInvalidPrice = errors.New("product price must not be negative")
	ErrEmptyName    = errors.New("product name is required")
)
