package marketplace

// Store owns the carbon credit listings, keyed by a monotonic id and listed
// in insertion order. It performs no locking of its own: callers run inside
// the engine-wide critical section.
type Store struct {
	credits map[uint64]*CarbonCredit
	order   []uint64
	nextID  uint64
}

// NewStore creates an empty credit store.
func NewStore() *Store {
	return &Store{credits: make(map[uint64]*CarbonCredit), nextID: 1}
}

// Insert allocates the next credit id and stores the listing. Ids are
// allocated only here, after the listing path has fully validated.
func (s *Store) Insert(credit CarbonCredit) uint64 {
	credit.ID = s.nextID
	s.nextID++
	c := credit
	s.credits[c.ID] = &c
	s.order = append(s.order, c.ID)
	return c.ID
}

// Get returns the live credit for an id.
func (s *Store) Get(id uint64) (*CarbonCredit, bool) {
	credit, ok := s.credits[id]
	return credit, ok
}

// ListActive returns a copy of every active credit in insertion order.
func (s *Store) ListActive() []CarbonCredit {
	var out []CarbonCredit
	for _, id := range s.order {
		if c := s.credits[id]; c.IsActive {
			out = append(out, *c)
		}
	}
	return out
}

// StoreState is the serializable form of the credit store, counter included.
type StoreState struct {
	Credits []CarbonCredit `json:"credits"`
	NextID  uint64         `json:"next_id"`
}

// Snapshot returns the full store state in insertion order, inactive
// credits included.
func (s *Store) Snapshot() StoreState {
	state := StoreState{NextID: s.nextID}
	for _, id := range s.order {
		state.Credits = append(state.Credits, *s.credits[id])
	}
	return state
}

// Restore replaces the store content, preserving insertion order and the
// id counter.
func (s *Store) Restore(state StoreState) {
	s.credits = make(map[uint64]*CarbonCredit, len(state.Credits))
	s.order = make([]uint64, 0, len(state.Credits))
	for i := range state.Credits {
		credit := state.Credits[i]
		s.credits[credit.ID] = &credit
		s.order = append(s.order, credit.ID)
	}
	s.nextID = state.NextID
	if s.nextID == 0 {
		s.nextID = 1
	}
}
