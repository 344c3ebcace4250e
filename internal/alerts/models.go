package alerts

import "time"

// Severity of an alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Status of an alert. Transitions are new -> read, new -> resolved and
// read -> resolved; resolved is terminal.
type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusResolved Status = "resolved"
)

// Alert is a threshold breach owned by a single principal.
type Alert struct {
	ID        uint64    `json:"id"`
	Principal string    `json:"user_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Status    Status    `json:"status"`
}
