package accounts

import "sort"

// Store owns the principal -> Account mapping. It performs no locking of
// its own: every caller runs inside the engine-wide critical section.
type Store struct {
	accounts map[string]*Account
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*Account)}
}

// Get returns the live account for a principal. The pointer stays valid only
// while the caller holds the engine lock.
func (s *Store) Get(principal string) (*Account, bool) {
	a, ok := s.accounts[principal]
	return a, ok
}

// Put inserts or replaces an account.
func (s *Store) Put(a *Account) {
	s.accounts[a.Principal] = a
}

// Len returns the number of registered accounts.
func (s *Store) Len() int {
	return len(s.accounts)
}

// Principals returns every registered identity in stable sorted order.
func (s *Store) Principals() []string {
	out := make([]string, 0, len(s.accounts))
	for p := range s.accounts {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RecordEmission adds amount to the cumulative emission, enforcing the
// allowance cap. Returns the new total.
func (s *Store) RecordEmission(principal string, amount uint64) (uint64, error) {
	a, ok := s.accounts[principal]
	if !ok {
		return 0, ErrNotFound
	}
	newEmitted, err := AddChecked(a.CarbonEmitted, amount)
	if err != nil {
		return 0, err
	}
	if newEmitted > a.CarbonAllowance {
		return 0, ErrAllowanceExceeded
	}
	a.CarbonEmitted = newEmitted
	return newEmitted, nil
}

// AccrueEmission adds amount to the cumulative emission without checking the
// allowance cap. Telemetry ingestion uses this path; the cap check is only
// applied by RecordEmission.
func (s *Store) AccrueEmission(principal string, amount uint64) (uint64, error) {
	a, ok := s.accounts[principal]
	if !ok {
		return 0, ErrNotFound
	}
	newEmitted, err := AddChecked(a.CarbonEmitted, amount)
	if err != nil {
		return 0, err
	}
	a.CarbonEmitted = newEmitted
	return newEmitted, nil
}

// CreditTokens adds amount to the token balance and returns the new balance.
func (s *Store) CreditTokens(principal string, amount uint64) (uint64, error) {
	a, ok := s.accounts[principal]
	if !ok {
		return 0, ErrNotFound
	}
	newBalance, err := AddChecked(a.Tokens, amount)
	if err != nil {
		return 0, err
	}
	a.Tokens = newBalance
	return newBalance, nil
}

// Snapshot returns a deep copy of every account for serialization.
func (s *Store) Snapshot() []Account {
	out := make([]Account, 0, len(s.accounts))
	for _, p := range s.Principals() {
		out = append(out, *s.accounts[p])
	}
	return out
}

// Restore replaces the store content with the given accounts.
func (s *Store) Restore(accounts []Account) {
	s.accounts = make(map[string]*Account, len(accounts))
	for i := range accounts {
		a := accounts[i]
		s.accounts[a.Principal] = &a
	}
}
