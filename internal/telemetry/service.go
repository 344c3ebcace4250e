package telemetry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"green-gauge/green-gauge-backend/internal/accounts"
)

// ErrNegativeValue is returned when a sample carries a negative reading.
var ErrNegativeValue = errors.New("energy and carbon values must be non-negative")

// ThresholdChecker evaluates per-sample alert thresholds. The call happens
// synchronously inside the ingestion critical section.
type ThresholdChecker interface {
	CheckThresholds(principal string, consumption, carbon float64)
}

// Service exposes telemetry ingestion and the derived queries.
type Service struct {
	mu       *sync.Mutex
	store    *Store
	accounts *accounts.Store
	checker  ThresholdChecker
	logger   *zap.Logger
}

func NewService(mu *sync.Mutex, store *Store, accountStore *accounts.Store, checker ThresholdChecker, logger *zap.Logger) *Service {
	return &Service{
		mu:       mu,
		store:    store,
		accounts: accountStore,
		checker:  checker,
		logger:   logger,
	}
}

// AddDataPoint appends a device sample, accrues the truncated carbon value
// onto the user's cumulative emission, appends an emission history point and
// runs the per-sample threshold check, all inside one critical section.
// The accrual deliberately skips the allowance cap applied by
// accounts.Service.RecordEmission.
func (s *Service) AddDataPoint(principal, deviceID string, consumption, carbon float64) (uint64, error) {
	if consumption < 0 || carbon < 0 {
		return 0, ErrNegativeValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts.Get(principal); !ok {
		return 0, accounts.ErrNotFound
	}

	newEmitted, err := s.accounts.AccrueEmission(principal, uint64(carbon))
	if err != nil {
		return 0, err
	}

	now := time.Now()
	id := s.store.AppendPoint(DataPoint{
		Principal:         principal,
		DeviceID:          deviceID,
		EnergyConsumption: consumption,
		CarbonEmitted:     carbon,
		Timestamp:         now,
	})
	s.store.AppendEmissionPoint(principal, newEmitted, now)
	s.checker.CheckThresholds(principal, consumption, carbon)

	s.logger.Debug("data point ingested",
		zap.String("principal", principal),
		zap.String("device", deviceID),
		zap.Uint64("point_id", id))

	return id, nil
}

// EmissionHistory returns the emission series within [from, to], inclusive.
func (s *Service) EmissionHistory(principal string, from, to time.Time) []EmissionPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.EmissionRange(principal, from, to)
}

// TokenHistory returns the token balance series within [from, to], inclusive.
func (s *Service) TokenHistory(principal string, from, to time.Time) []TokenPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TokenRange(principal, from, to)
}

// EfficiencyMetrics groups the principal's samples of the trailing window
// by calendar day. A day with no consumption scores 0; otherwise
// score = 100 * (1 - min(carbon/consumption, 1)).
func (s *Service) EfficiencyMetrics(principal string, windowDays int) []EfficiencyMetric {
	now := time.Now()
	from := now.AddDate(0, 0, -windowDays)

	s.mu.Lock()
	points := s.store.PointsInWindow(principal, from, now)
	s.mu.Unlock()

	byDay := make(map[string]*EfficiencyMetric)
	for _, p := range points {
		day := p.Timestamp.Format("2006-01-02")
		m, ok := byDay[day]
		if !ok {
			m = &EfficiencyMetric{Date: day}
			byDay[day] = m
		}
		m.Consumption += p.EnergyConsumption
		m.Carbon += p.CarbonEmitted
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	metrics := make([]EfficiencyMetric, 0, len(days))
	for _, day := range days {
		m := byDay[day]
		if m.Consumption > 0 {
			ratio := m.Carbon / m.Consumption
			if ratio > 1 {
				ratio = 1
			}
			m.Score = 100 * (1 - ratio)
		}
		metrics = append(metrics, *m)
	}
	return metrics
}
