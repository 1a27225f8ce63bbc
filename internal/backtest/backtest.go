// Package backtest turns fill-annotated limit-up rows into discrete trades,
// an equity curve and per-scenario summary metrics.
package backtest

import (
	"sort"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// Costs holds the round-trip transaction cost parameters in basis points.
type Costs struct {
	FeeBps      float64
	SlippageBps float64
}

// RoundTrip returns the flat round-trip deduction applied to each trade's
// gross return: 2 * (fee + slippage) / 10000. The cost is deducted once per
// trade, not compounded per leg.
func (c Costs) RoundTrip() float64 {
	return 2 * (c.FeeBps + c.SlippageBps) / 10000
}

// Result is the output of one fill-model scenario: the trade table, the
// equity curve and the summary metrics.
type Result struct {
	Trades  []models.Trade
	Equity  []models.EquityPoint
	Metrics models.ScenarioMetrics
}

// Run executes one strategy under one fill model over per-instrument labeled
// rows. Each instrument's rows must be sorted ascending by trade date.
//
// For every tradable trigger the position opens at the fill price and closes
// on the instrument's next observed row at the strategy's exit price. A
// trigger on an instrument's last row has no exit and produces no trade.
func Run(rowsByInstrument map[string][]models.LabeledBar, strategy Strategy, model FillModel, costs Costs) Result {
	roundTrip := costs.RoundTrip()

	var trades []models.Trade
	codes := make([]string, 0, len(rowsByInstrument))
	for code := range rowsByInstrument {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		rows := rowsByInstrument[code]
		for i := 0; i < len(rows)-1; i++ {
			row := rows[i]
			fill := model.Annotate(row)
			if !fill.Tradable || !strategy.Enter(toStrategyRow(row)) {
				continue
			}

			next := rows[i+1]
			exitPrice := next.Close
			if strategy.ExitAt() == ExitNextOpen {
				exitPrice = next.Open
			}

			retGross := exitPrice.Div(fill.FillPrice).InexactFloat64() - 1
			trades = append(trades, models.Trade{
				StrategyName: strategy.Name(),
				FillModel:    string(model),
				TsCode:       row.TsCode,
				EntryDate:    row.TradeDate,
				ExitDate:     next.TradeDate,
				EntryPrice:   fill.FillPrice,
				ExitPrice:    exitPrice,
				RetGross:     retGross,
				RetNet:       retGross - roundTrip,
			})
		}
	}

	// Deterministic global order: exit date, then entry date, then code.
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].ExitDate != trades[j].ExitDate {
			return trades[i].ExitDate < trades[j].ExitDate
		}
		if trades[i].EntryDate != trades[j].EntryDate {
			return trades[i].EntryDate < trades[j].EntryDate
		}
		return trades[i].TsCode < trades[j].TsCode
	})

	equity := buildEquityCurve(trades)
	return Result{
		Trades:  trades,
		Equity:  equity,
		Metrics: computeMetrics(string(model), trades, equity),
	}
}

// buildEquityCurve folds the ordered trades into the cumulative product of
// (1 + ret_net), emitting one point per distinct exit date.
func buildEquityCurve(trades []models.Trade) []models.EquityPoint {
	var curve []models.EquityPoint
	equity := 1.0
	for i, trade := range trades {
		equity *= 1 + trade.RetNet
		if i == len(trades)-1 || trades[i+1].ExitDate != trade.ExitDate {
			curve = append(curve, models.EquityPoint{
				Date:             trade.ExitDate,
				CumulativeReturn: equity - 1,
			})
		}
	}
	return curve
}

func toStrategyRow(row models.LabeledBar) StrategyRow {
	return StrategyRow{
		TsCode:       row.TsCode,
		TradeDate:    row.TradeDate,
		Open:         row.Open,
		Close:        row.Close,
		LabelLimitUp: row.LabelLimitUp,
		LabelOneWord: row.LabelOneWord,
		LabelSealed:  row.LabelSealed,
		StreakUp:     row.StreakUp,
	}
}
