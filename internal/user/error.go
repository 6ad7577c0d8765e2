package user

import "errors"

var (
	// -- Authentication --
	ErrInvalidCredentials = errors.New("invalid email or password")

	// -- Resource State --
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	// -- Validation & Input --
	ErrInvalidRole = errors.New("invalid user role")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)
