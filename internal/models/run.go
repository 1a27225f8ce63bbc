package models

import "time"

// Run status constants
const (
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// Run records one execution of the labeling + backtest pipeline along with
// the non-fatal diagnostics it produced.
type Run struct {
	ID          int       `json:"id"`
	Strategy    string    `json:"strategy"`
	FeeBps      float64   `json:"fee_bps"`
	SlippageBps float64   `json:"slippage_bps"`
	Epsilon     string    `json:"epsilon"`
	Status      string    `json:"status"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
