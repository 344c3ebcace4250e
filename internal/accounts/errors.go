package accounts

import "errors"

var (
	// ErrAnonymous is returned when the anonymous principal tries to register.
	ErrAnonymous = errors.New("anonymous principals cannot register")
	// ErrAlreadyRegistered is returned when the principal already has an account.
	ErrAlreadyRegistered = errors.New("user already registered")
	// ErrNotFound is returned when no account exists for the principal.
	ErrNotFound = errors.New("user profile not found")
	// ErrAllowanceExceeded is returned when an emission would push the
	// cumulative total past the allowance.
	ErrAllowanceExceeded = errors.New("emission would exceed carbon allowance")
	// ErrBalanceOverflow is returned when balance arithmetic would wrap.
	ErrBalanceOverflow = errors.New("balance arithmetic overflow")
)
