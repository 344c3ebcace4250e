package accounts

import "math"

// AddChecked returns a+b, or ErrBalanceOverflow if the sum would wrap.
func AddChecked(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, ErrBalanceOverflow
	}
	return a + b, nil
}

// SubChecked returns a-b, or ErrBalanceOverflow if b exceeds a.
func SubChecked(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrBalanceOverflow
	}
	return a - b, nil
}
