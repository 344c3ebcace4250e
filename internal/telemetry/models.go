package telemetry

import "time"

// DataPoint is an immutable raw device sample.
type DataPoint struct {
	ID                uint64    `json:"id"`
	Principal         string    `json:"user_id"`
	DeviceID          string    `json:"device_id"`
	EnergyConsumption float64   `json:"energy_consumption"`
	CarbonEmitted     float64   `json:"carbon_emitted"`
	Timestamp         time.Time `json:"timestamp"`
}

// EmissionPoint records the cumulative emission total after a change.
type EmissionPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Emitted   uint64    `json:"emitted"`
}

// TokenPoint records the token balance after a change.
type TokenPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Balance   uint64    `json:"balance"`
}

// EfficiencyMetric is the per-day aggregate of a user's data points.
type EfficiencyMetric struct {
	Date        string  `json:"date"`
	Consumption float64 `json:"consumption"`
	Carbon      float64 `json:"carbon"`
	Score       float64 `json:"score"`
}
