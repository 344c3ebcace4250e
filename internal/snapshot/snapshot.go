package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
	"green-gauge/green-gauge-backend/internal/alerts"
	"green-gauge/green-gauge-backend/internal/ledger"
	"green-gauge/green-gauge-backend/internal/marketplace"
	"green-gauge/green-gauge-backend/internal/telemetry"
	"green-gauge/green-gauge-backend/internal/trading"
)

// State is the full engine state, including every id counter, so that a
// restore continues numbering where the saved process left off.
type State struct {
	TakenAt      time.Time              `json:"taken_at"`
	Accounts     []accounts.Account     `json:"accounts"`
	Trades       trading.BookState      `json:"trades"`
	Credits      marketplace.StoreState `json:"credits"`
	Transactions ledger.StoreState      `json:"transactions"`
	Telemetry    telemetry.StoreState   `json:"telemetry"`
	Alerts       alerts.EngineState     `json:"alerts"`
}

// Backend persists serialized snapshots.
type Backend interface {
	Put(ctx context.Context, data []byte) error
	Get(ctx context.Context) ([]byte, error)
}

// Snapshotter captures and restores the engine state through a backend.
// Capture and restore run under the engine lock, so the store Snapshot and
// Restore methods are called with exclusive access.
type Snapshotter struct {
	mu          *sync.Mutex
	accounts    *accounts.Store
	trades      *trading.Book
	credits     *marketplace.Store
	ledger      *ledger.Store
	telemetry   *telemetry.Store
	alertEngine *alerts.Engine
	backend     Backend
	logger      *zap.Logger
}

func NewSnapshotter(
	mu *sync.Mutex,
	accountStore *accounts.Store,
	book *trading.Book,
	creditStore *marketplace.Store,
	ledgerStore *ledger.Store,
	telemetryStore *telemetry.Store,
	alertEngine *alerts.Engine,
	backend Backend,
	logger *zap.Logger,
) *Snapshotter {
	return &Snapshotter{
		mu:          mu,
		accounts:    accountStore,
		trades:      book,
		credits:     creditStore,
		ledger:      ledgerStore,
		telemetry:   telemetryStore,
		alertEngine: alertEngine,
		backend:     backend,
		logger:      logger,
	}
}

// Save captures the engine state and writes it to the backend. Serialization
// and upload happen outside the critical section.
func (s *Snapshotter) Save(ctx context.Context) error {
	s.mu.Lock()
	state := State{
		TakenAt:      time.Now(),
		Accounts:     s.accounts.Snapshot(),
		Trades:       s.trades.Snapshot(),
		Credits:      s.credits.Snapshot(),
		Transactions: s.ledger.Snapshot(),
		Telemetry:    s.telemetry.Snapshot(),
		Alerts:       s.alertEngine.Snapshot(),
	}
	s.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	if err := s.backend.Put(ctx, data); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.Info("snapshot saved",
		zap.Int("accounts", len(state.Accounts)),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads the latest snapshot from the backend and restores every store.
// A missing snapshot is not an error; the engine starts empty.
func (s *Snapshotter) Load(ctx context.Context) error {
	data, err := s.backend.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if data == nil {
		s.logger.Info("no snapshot found, starting empty")
		return nil
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	s.mu.Lock()
	s.accounts.Restore(state.Accounts)
	s.trades.Restore(state.Trades)
	s.credits.Restore(state.Credits)
	s.ledger.Restore(state.Transactions)
	s.telemetry.Restore(state.Telemetry)
	s.alertEngine.Restore(state.Alerts)
	s.mu.Unlock()

	s.logger.Info("snapshot restored",
		zap.Time("taken_at", state.TakenAt),
		zap.Int("accounts", len(state.Accounts)))
	return nil
}
