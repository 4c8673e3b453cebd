package models

import "time"

// Event type constants for the runs topic
const (
	EventScenarioRun    = "SCENARIO_RUN"
	EventBacktestRun    = "BACKTEST_RUN"
	EventHistoryCleared = "HISTORY_CLEARED"
)

// RunEvent is published to Kafka after every completed scenario or
// backtest run.
type RunEvent struct {
	EventType string                 `json:"event_type"`
	Record    *ScenarioHistoryRecord `json:"record,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// PositionSnapshot is consumed from Kafka to replace the in-memory
// portfolio with an externally managed set of positions.
type PositionSnapshot struct {
	EventType string     `json:"event_type"`
	Positions []Position `json:"positions"`
	Source    string     `json:"source,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
