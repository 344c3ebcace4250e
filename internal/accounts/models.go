package accounts

import (
	"time"

	"green-gauge/green-gauge-backend/internal/auth"
)

// AnonymousPrincipal is the reserved identity the transport layer assigns to
// unauthenticated callers. It can never own an account.
const AnonymousPrincipal = auth.AnonymousPrincipal

// Account tracks one participant's carbon budget, token balance and profile.
type Account struct {
	Principal       string    `json:"principal"`
	CarbonAllowance uint64    `json:"carbon_allowance"`
	CarbonEmitted   uint64    `json:"carbon_emitted"`
	Tokens          uint64    `json:"tokens"`
	DisplayName     string    `json:"display_name"`
	Contact         string    `json:"contact"`
	JoinedAt        time.Time `json:"joined_at"`
	LastActiveAt    time.Time `json:"last_active_at"`
}

// Available returns the unspent part of the carbon allowance. Telemetry
// accrual may push the emission past the allowance, so the subtraction
// saturates at zero.
func (a *Account) Available() uint64 {
	if a.CarbonEmitted >= a.CarbonAllowance {
		return 0
	}
	return a.CarbonAllowance - a.CarbonEmitted
}

// ProfileUpdate carries optional profile fields. Nil fields are left
// untouched rather than reset.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Contact     *string `json:"contact,omitempty"`
}
