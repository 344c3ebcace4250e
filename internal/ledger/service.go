package ledger

import "sync"

// Service exposes read access to the ledger under the engine lock. Writes
// happen inside the trade and marketplace settlement paths.
type Service struct {
	mu    *sync.Mutex
	store *Store
}

func NewService(mu *sync.Mutex, store *Store) *Service {
	return &Service{mu: mu, store: store}
}

// History returns the caller's transactions in append order.
func (s *Service) History(principal string) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ForPrincipal(principal)
}
