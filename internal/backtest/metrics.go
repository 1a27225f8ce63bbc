package backtest

import (
	"github.com/trogers1052/limitup-lab/internal/models"
)

// computeMetrics summarizes one scenario: trade count, total return (final
// equity minus one), max peak-to-trough drawdown of the equity curve and the
// fraction of trades with positive net return.
func computeMetrics(fillModel string, trades []models.Trade, equity []models.EquityPoint) models.ScenarioMetrics {
	m := models.ScenarioMetrics{FillModel: fillModel, TradeCount: len(trades)}
	if len(trades) == 0 {
		return m
	}

	wins := 0
	for _, trade := range trades {
		if trade.RetNet > 0 {
			wins++
		}
	}
	m.WinRate = float64(wins) / float64(len(trades))
	m.TotalReturn = equity[len(equity)-1].CumulativeReturn

	// The curve starts from flat equity 1.0 before the first exit.
	peak := 1.0
	for _, point := range equity {
		value := 1 + point.CumulativeReturn
		if value > peak {
			peak = value
		}
		if dd := (peak - value) / peak; dd > m.MaxDrawdown {
			m.MaxDrawdown = dd
		}
	}
	return m
}

// Compare runs both fill models over the same trigger set and diffs the
// summary metrics. The deltas are IDEAL minus CONSERVATIVE.
func Compare(rowsByInstrument map[string][]models.LabeledBar, strategy Strategy, costs Costs) (Result, Result, models.ScenarioComparison) {
	ideal := Run(rowsByInstrument, strategy, Ideal, costs)
	conservative := Run(rowsByInstrument, strategy, Conservative, costs)

	comparison := models.ScenarioComparison{
		Ideal:            ideal.Metrics,
		Conservative:     conservative.Metrics,
		TradeCountDelta:  ideal.Metrics.TradeCount - conservative.Metrics.TradeCount,
		TotalReturnDelta: ideal.Metrics.TotalReturn - conservative.Metrics.TotalReturn,
		WinRateDelta:     ideal.Metrics.WinRate - conservative.Metrics.WinRate,
	}
	return ideal, conservative, comparison
}
