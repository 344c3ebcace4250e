package trading

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroAmount is returned for a zero trade or settlement amount.
	ErrZeroAmount = errors.New("trade amount must be greater than zero")
	// ErrZeroPrice is returned for a zero price per unit.
	ErrZeroPrice = errors.New("price per unit must be greater than zero")
	// ErrOfferNotFound is returned for an unknown trade id.
	ErrOfferNotFound = errors.New("trade offer not found")
	// ErrSelfTrade is returned when a seller tries to buy their own offer.
	ErrSelfTrade = errors.New("cannot buy your own trade offer")
	// ErrCostOverflow is returned when amount * price does not fit in uint64.
	ErrCostOverflow = errors.New("trade cost overflows")
)

// InsufficientAllowanceError reports how much allowance the seller actually
// has available.
type InsufficientAllowanceError struct {
	Available uint64
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("not enough available carbon allowance: %d units available", e.Available)
}

// ExceedsOfferError reports the remaining amount of the offer.
type ExceedsOfferError struct {
	Available uint64
}

func (e *ExceedsOfferError) Error() string {
	return fmt.Sprintf("requested amount exceeds offer: %d units available", e.Available)
}

// InsufficientFundsError reports the buyer's shortfall.
type InsufficientFundsError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("not enough tokens: required %d, available %d", e.Required, e.Available)
}
