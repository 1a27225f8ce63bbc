package models

import "time"

// Event type constants
const (
	EventBarUpserted        = "BAR_UPSERTED"
	EventInstrumentUpserted = "INSTRUMENT_UPSERTED"
	EventRunCompleted       = "RUN_COMPLETED"
)

// BarEvent is the Kafka payload for daily-bar ingest events.
type BarEvent struct {
	EventType  string      `json:"event_type"`
	Bar        *DailyBar   `json:"bar,omitempty"`
	Instrument *Instrument `json:"instrument,omitempty"`
	TsCode     string      `json:"ts_code"`
	Timestamp  time.Time   `json:"timestamp"`
}

// RunEvent is the Kafka payload published when a labeling/backtest run
// finishes.
type RunEvent struct {
	EventType  string             `json:"event_type"`
	RunID      int                `json:"run_id"`
	Strategy   string             `json:"strategy"`
	Comparison ScenarioComparison `json:"comparison"`
	Timestamp  time.Time          `json:"timestamp"`
}
