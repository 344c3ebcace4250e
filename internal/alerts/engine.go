package alerts

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidStatus is returned for a status outside the alert state
	// machine or a transition out of resolved.
	ErrInvalidStatus = errors.New("invalid alert status")
	// ErrNotFound is returned when the alert does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("alert not found")
)

// Per-sample thresholds checked on every ingested data point, and the
// trailing-24h thresholds checked by the periodic scan. The two mechanisms
// are independent and may both fire for the same usage.
const (
	sampleConsumptionThreshold = 1000.0
	sampleCarbonThreshold      = 100.0
	dailyConsumptionThreshold  = 50.0
	dailyCarbonThreshold       = 5.0
	scanWindow                 = 24 * time.Hour
)

// UsageSource provides aggregated telemetry for the periodic scan.
type UsageSource interface {
	UsageSince(principal string, since time.Time) (consumption, carbon float64)
}

// AccountDirectory lists every registered principal.
type AccountDirectory interface {
	Principals() []string
}

// Notifier pushes newly created alerts to connected clients. Delivery is
// best effort and must not block.
type Notifier interface {
	AlertCreated(alert Alert)
}

// Engine owns the alert store and derives alerts from telemetry.
type Engine struct {
	mu        *sync.Mutex
	alerts    map[uint64]*Alert
	nextID    uint64
	usage     UsageSource
	directory AccountDirectory
	notifier  Notifier
	logger    *zap.Logger
}

// NewEngine creates the alert engine. notifier may be nil.
func NewEngine(mu *sync.Mutex, usage UsageSource, directory AccountDirectory, notifier Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		mu:        mu,
		alerts:    make(map[uint64]*Alert),
		nextID:    1,
		usage:     usage,
		directory: directory,
		notifier:  notifier,
		logger:    logger,
	}
}

// CheckThresholds evaluates a single sample and creates at most one alert.
// It runs inside the telemetry ingestion critical section: the caller
// already holds the engine lock, so this method must not lock.
func (e *Engine) CheckThresholds(principal string, consumption, carbon float64) {
	highConsumption := consumption > sampleConsumptionThreshold
	highCarbon := carbon > sampleCarbonThreshold

	switch {
	case highConsumption && highCarbon:
		e.create(principal, SeverityHigh,
			fmt.Sprintf("Critical usage: energy consumption %.0f and carbon emission %.0f both exceed limits", consumption, carbon))
	case highConsumption:
		e.create(principal, SeverityMedium,
			fmt.Sprintf("High energy consumption: %.0f exceeds the %.0f limit", consumption, sampleConsumptionThreshold))
	case highCarbon:
		e.create(principal, SeverityMedium,
			fmt.Sprintf("High carbon emission: %.0f exceeds the %.0f limit", carbon, sampleCarbonThreshold))
	}
}

// ScanAllRecent sums the trailing 24h of data points for every account and
// creates one alert per breached threshold, up to two per account. Returns
// the number of alerts created.
func (e *Engine) ScanAllRecent() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	since := time.Now().Add(-scanWindow)
	created := 0
	for _, principal := range e.directory.Principals() {
		consumption, carbon := e.usage.UsageSince(principal, since)
		if consumption > dailyConsumptionThreshold {
			e.create(principal, SeverityMedium,
				fmt.Sprintf("Daily energy consumption %.1f exceeds the %.0f limit", consumption, dailyConsumptionThreshold))
			created++
		}
		if carbon > dailyCarbonThreshold {
			e.create(principal, SeverityHigh,
				fmt.Sprintf("Daily carbon emission %.1f exceeds the %.0f limit", carbon, dailyCarbonThreshold))
			created++
		}
	}
	return created
}

// ListForUser returns the caller's alerts ordered by id.
func (e *Engine) ListForUser(principal string) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Alert
	for _, a := range e.alerts {
		if a.Principal == principal {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetStatus moves an alert to "read" or "resolved". Only the owning user
// may mutate an alert, and resolved alerts stay resolved.
func (e *Engine) SetStatus(principal string, id uint64, status Status) error {
	if status != StatusRead && status != StatusResolved {
		return ErrInvalidStatus
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.alerts[id]
	if !ok || alert.Principal != principal {
		return ErrNotFound
	}
	if alert.Status == StatusResolved {
		return ErrInvalidStatus
	}
	alert.Status = status
	return nil
}

// Remove deletes one of the caller's alerts.
func (e *Engine) Remove(principal string, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.alerts[id]
	if !ok || alert.Principal != principal {
		return ErrNotFound
	}
	delete(e.alerts, id)
	return nil
}

// create allocates the next id and stores a new alert. Callers hold the
// engine lock.
func (e *Engine) create(principal string, severity Severity, message string) {
	alert := &Alert{
		ID:        e.nextID,
		Principal: principal,
		Message:   message,
		Timestamp: time.Now(),
		Severity:  severity,
		Status:    StatusNew,
	}
	e.nextID++
	e.alerts[alert.ID] = alert

	e.logger.Info("alert created",
		zap.Uint64("id", alert.ID),
		zap.String("principal", principal),
		zap.String("severity", string(severity)))

	if e.notifier != nil {
		e.notifier.AlertCreated(*alert)
	}
}

// EngineState is the serializable form of the alert store.
type EngineState struct {
	Alerts []Alert `json:"alerts"`
	NextID uint64  `json:"next_id"`
}

// Snapshot returns the full alert state, counter included.
func (e *Engine) Snapshot() EngineState {
	state := EngineState{NextID: e.nextID}
	for _, a := range e.alerts {
		state.Alerts = append(state.Alerts, *a)
	}
	sort.Slice(state.Alerts, func(i, j int) bool { return state.Alerts[i].ID < state.Alerts[j].ID })
	return state
}

// Restore replaces the alert store content, preserving the id counter.
func (e *Engine) Restore(state EngineState) {
	e.alerts = make(map[uint64]*Alert, len(state.Alerts))
	for i := range state.Alerts {
		a := state.Alerts[i]
		e.alerts[a.ID] = &a
	}
	e.nextID = state.NextID
	if e.nextID == 0 {
		e.nextID = 1
	}
}
