package telemetry

import "time"

// Store owns the raw data points and the derived per-user time series.
// It performs no locking of its own: callers run inside the engine-wide
// critical section.
type Store struct {
	points    []DataPoint
	nextID    uint64
	emissions map[string][]EmissionPoint
	tokens    map[string][]TokenPoint
}

// NewStore creates an empty telemetry store.
func NewStore() *Store {
	return &Store{
		nextID:    1,
		emissions: make(map[string][]EmissionPoint),
		tokens:    make(map[string][]TokenPoint),
	}
}

// AppendPoint assigns the next id and appends the sample. Ids are allocated
// only here, after the ingestion path has fully validated.
func (s *Store) AppendPoint(p DataPoint) uint64 {
	p.ID = s.nextID
	s.nextID++
	s.points = append(s.points, p)
	return p.ID
}

// PointsInWindow returns the principal's samples with from <= ts <= to, in
// submission order.
func (s *Store) PointsInWindow(principal string, from, to time.Time) []DataPoint {
	var out []DataPoint
	for _, p := range s.points {
		if p.Principal != principal {
			continue
		}
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// UsageSince sums consumption and carbon over the principal's samples taken
// at or after since.
func (s *Store) UsageSince(principal string, since time.Time) (consumption, carbon float64) {
	for _, p := range s.points {
		if p.Principal != principal || p.Timestamp.Before(since) {
			continue
		}
		consumption += p.EnergyConsumption
		carbon += p.CarbonEmitted
	}
	return consumption, carbon
}

// AppendEmissionPoint appends to the principal's emission history series.
func (s *Store) AppendEmissionPoint(principal string, emitted uint64, at time.Time) {
	s.emissions[principal] = append(s.emissions[principal], EmissionPoint{Timestamp: at, Emitted: emitted})
}

// AppendTokenPoint appends to the principal's token balance series.
func (s *Store) AppendTokenPoint(principal string, balance uint64, at time.Time) {
	s.tokens[principal] = append(s.tokens[principal], TokenPoint{Timestamp: at, Balance: balance})
}

// EmissionRange returns the emission history with from <= ts <= to.
func (s *Store) EmissionRange(principal string, from, to time.Time) []EmissionPoint {
	var out []EmissionPoint
	for _, p := range s.emissions[principal] {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TokenRange returns the token balance history with from <= ts <= to.
func (s *Store) TokenRange(principal string, from, to time.Time) []TokenPoint {
	var out []TokenPoint
	for _, p := range s.tokens[principal] {
		if p.Timestamp.Before(from) || p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// StoreState is the serializable form of the store, counter included.
type StoreState struct {
	Points    []DataPoint                `json:"points"`
	NextID    uint64                     `json:"next_id"`
	Emissions map[string][]EmissionPoint `json:"emissions"`
	Tokens    map[string][]TokenPoint    `json:"tokens"`
}

// Snapshot returns the full telemetry state.
func (s *Store) Snapshot() StoreState {
	state := StoreState{
		Points:    make([]DataPoint, len(s.points)),
		NextID:    s.nextID,
		Emissions: make(map[string][]EmissionPoint, len(s.emissions)),
		Tokens:    make(map[string][]TokenPoint, len(s.tokens)),
	}
	copy(state.Points, s.points)
	for p, series := range s.emissions {
		state.Emissions[p] = append([]EmissionPoint(nil), series...)
	}
	for p, series := range s.tokens {
		state.Tokens[p] = append([]TokenPoint(nil), series...)
	}
	return state
}

// Restore replaces the store content, preserving the id counter.
func (s *Store) Restore(state StoreState) {
	s.points = append([]DataPoint(nil), state.Points...)
	s.nextID = state.NextID
	if s.nextID == 0 {
		s.nextID = 1
	}
	s.emissions = make(map[string][]EmissionPoint, len(state.Emissions))
	for p, series := range state.Emissions {
		s.emissions[p] = append([]EmissionPoint(nil), series...)
	}
	s.tokens = make(map[string][]TokenPoint, len(state.Tokens))
	for p, series := range state.Tokens {
		s.tokens[p] = append([]TokenPoint(nil), series...)
	}
}
