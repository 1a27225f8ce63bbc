package models

import (
	"github.com/shopspring/decimal"
)

// Fill model constants
const (
	FillModelIdeal        = "IDEAL"
	FillModelConservative = "CONSERVATIVE"
)

// Trade represents one completed round trip produced by the backtest.
// Created once per qualifying trigger and immutable thereafter.
type Trade struct {
	StrategyName string          `json:"strategy_name"`
	FillModel    string          `json:"fill_model"`
	TsCode       string          `json:"ts_code"`
	EntryDate    string          `json:"entry_date"`
	ExitDate     string          `json:"exit_date"`
	EntryPrice   decimal.Decimal `json:"entry_price"`
	ExitPrice    decimal.Decimal `json:"exit_price"`
	RetGross     float64         `json:"ret_gross"`
	RetNet       float64         `json:"ret_net"`
}

// EquityPoint is one step of the cumulative equity curve, emitted per
// distinct exit date after every trade of that date has been applied.
type EquityPoint struct {
	Date             string  `json:"date"`
	CumulativeReturn float64 `json:"cumulative_return"`
}

// ScenarioMetrics summarizes one fill-model scenario of a backtest run.
type ScenarioMetrics struct {
	FillModel   string  `json:"fill_model"`
	TradeCount  int     `json:"trade_count"`
	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	WinRate     float64 `json:"win_rate"`
}

// ScenarioComparison pairs the IDEAL and CONSERVATIVE metrics for the same
// trigger set. The deltas expose how much return is an artifact of assuming
// unconstrained fills.
type ScenarioComparison struct {
	Ideal            ScenarioMetrics `json:"ideal"`
	Conservative     ScenarioMetrics `json:"conservative"`
	TradeCountDelta  int             `json:"trade_count_delta"`
	TotalReturnDelta float64         `json:"total_return_delta"`
	WinRateDelta     float64         `json:"win_rate_delta"`
}

// GroupStat is one row of the grouped return statistics table. Groups holds
// the grouping column values keyed by column name, normalized to strings.
type GroupStat struct {
	Groups    map[string]string `json:"groups"`
	Count     int               `json:"count"`
	NextOpen  ReturnSummary     `json:"next_open_ret"`
	NextClose ReturnSummary     `json:"next_close_ret"`
}

// ReturnSummary holds the distributional summary of one return column
// within a group. Count is the number of non-missing observations.
type ReturnSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P10   float64 `json:"p10"`
	P50   float64 `json:"p50"`
	P90   float64 `json:"p90"`
}
