package marketplace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned for a non-positive credit amount.
	ErrInvalidAmount = errors.New("credit amount must be greater than zero")
	// ErrInvalidPrice is returned for a non-positive price per unit.
	ErrInvalidPrice = errors.New("price per unit must be greater than zero")
	// ErrInvalidCreditType is returned for a credit type outside the
	// enumeration.
	ErrInvalidCreditType = errors.New("invalid credit type")
	// ErrInvalidCertification is returned for an unknown certification body.
	ErrInvalidCertification = errors.New("invalid certification")
	// ErrInsufficientAllowance is returned when the seller's available
	// allowance cannot back the listed amount.
	ErrInsufficientAllowance = errors.New("not enough available carbon allowance")
	// ErrNotActive is returned for an unknown or deactivated credit. The
	// two cases are deliberately indistinguishable.
	ErrNotActive = errors.New("carbon credit not found or inactive")
	// ErrSelfPurchase is returned when a seller tries to buy their own
	// credit.
	ErrSelfPurchase = errors.New("cannot purchase your own carbon credit")
)

// ExceedsAvailableError reports the remaining amount of the credit.
type ExceedsAvailableError struct {
	Available float64
}

func (e *ExceedsAvailableError) Error() string {
	return fmt.Sprintf("requested amount exceeds credit: %g units available", e.Available)
}
