package accounts

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// HistoryRecorder receives a history point whenever an account's token
// balance or cumulative emission changes.
type HistoryRecorder interface {
	AppendTokenPoint(principal string, balance uint64, at time.Time)
	AppendEmissionPoint(principal string, emitted uint64, at time.Time)
}

// Service exposes the account operations. All public methods serialize on
// the engine-wide mutex so no caller ever observes a partial mutation.
type Service struct {
	mu      *sync.Mutex
	store   *Store
	history HistoryRecorder
	logger  *zap.Logger

	defaultAllowance uint64
	startingTokens   uint64
}

// NewService creates the account service. defaultAllowance and
// startingTokens are granted to every newly registered account.
func NewService(mu *sync.Mutex, store *Store, history HistoryRecorder, logger *zap.Logger, defaultAllowance, startingTokens uint64) *Service {
	return &Service{
		mu:               mu,
		store:            store,
		history:          history,
		logger:           logger,
		defaultAllowance: defaultAllowance,
		startingTokens:   startingTokens,
	}
}

// Register creates an account for the principal with the default allowance
// and the starting token grant, and seeds the first token-balance history
// point at the grant value.
func (s *Service) Register(principal string) (Account, error) {
	if principal == AnonymousPrincipal {
		return Account{}, ErrAnonymous
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Get(principal); ok {
		return Account{}, ErrAlreadyRegistered
	}

	now := time.Now()
	account := &Account{
		Principal:       principal,
		CarbonAllowance: s.defaultAllowance,
		CarbonEmitted:   0,
		Tokens:          s.startingTokens,
		JoinedAt:        now,
		LastActiveAt:    now,
	}
	s.store.Put(account)
	s.history.AppendTokenPoint(principal, account.Tokens, now)

	s.logger.Info("account registered",
		zap.String("principal", principal),
		zap.Uint64("allowance", account.CarbonAllowance),
		zap.Uint64("tokens", account.Tokens))

	return *account, nil
}

// Get returns a copy of the principal's account.
func (s *Service) Get(principal string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.store.Get(principal)
	if !ok {
		return Account{}, ErrNotFound
	}
	return *account, nil
}

// RecordEmission atomically adds amount to the cumulative emission, failing
// if the total would exceed the allowance.
func (s *Service) RecordEmission(principal string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newEmitted, err := s.store.RecordEmission(principal, amount)
	if err != nil {
		return err
	}
	s.history.AppendEmissionPoint(principal, newEmitted, time.Now())
	return nil
}

// RewardTokens atomically credits tokens and appends a token-balance
// history point at the new balance.
func (s *Service) RewardTokens(principal string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newBalance, err := s.store.CreditTokens(principal, amount)
	if err != nil {
		return err
	}
	s.history.AppendTokenPoint(principal, newBalance, time.Now())
	return nil
}

// UpdateProfile overwrites the profile fields that are present in the
// update and leaves absent fields untouched.
func (s *Service) UpdateProfile(principal string, update ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.store.Get(principal)
	if !ok {
		return ErrNotFound
	}
	if update.DisplayName != nil {
		account.DisplayName = *update.DisplayName
	}
	if update.Contact != nil {
		account.Contact = *update.Contact
	}
	account.LastActiveAt = time.Now()
	return nil
}
