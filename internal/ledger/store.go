package ledger

import "time"

// Store is the append-only transaction ledger. It performs no locking of
// its own: callers run inside the engine-wide critical section.
type Store struct {
	transactions []Transaction
	nextID       uint64
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append assigns the next transaction id and appends the record. The id is
// allocated only here, after the producing operation has fully validated.
func (s *Store) Append(t Transaction) uint64 {
	t.ID = s.nextID
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	s.nextID++
	s.transactions = append(s.transactions, t)
	return t.ID
}

// ForPrincipal returns every transaction the principal took part in, in
// append order.
func (s *Store) ForPrincipal(principal string) []Transaction {
	var out []Transaction
	for _, t := range s.transactions {
		if t.Buyer == principal || t.Seller == principal {
			out = append(out, t)
		}
	}
	return out
}

// All returns a copy of the full ledger in append order.
func (s *Store) All() []Transaction {
	out := make([]Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// StoreState is the serializable form of the ledger, counter included.
type StoreState struct {
	Transactions []Transaction `json:"transactions"`
	NextID       uint64        `json:"next_id"`
}

// Snapshot returns the full ledger state.
func (s *Store) Snapshot() StoreState {
	return StoreState{Transactions: s.All(), NextID: s.nextID}
}

// Restore replaces the ledger content. The restored counter must never
// re-issue an id already present in the ledger.
func (s *Store) Restore(state StoreState) {
	s.transactions = make([]Transaction, len(state.Transactions))
	copy(s.transactions, state.Transactions)
	s.nextID = state.NextID
	if s.nextID == 0 {
		s.nextID = 1
	}
}
