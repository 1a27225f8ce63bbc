package labels

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/models"
	"github.com/trogers1052/limitup-lab/internal/rules"
)

// DefaultEpsilon is the absolute tolerance used for all price comparisons
// against the computed limit price. It absorbs sub-cent rounding noise from
// upstream data sources and is configuration, not an error path.
var DefaultEpsilon = decimal.NewFromFloat(0.01)

// approxEq reports |a-b| <= eps.
func approxEq(a, b, eps decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(eps)
}

// LabelInstrument derives the limit-up labels and the streak counter for one
// instrument's bars. Bars must be sorted strictly ascending by trade date;
// that is a precondition, not an in-engine sort guarantee. applicable must be
// aligned with bars (one entry per row).
//
// Streak continuity is judged against the market calendar: a limit-up row
// extends the streak only when the previous row was limit-up and sits on the
// immediately preceding market trading day. An instrument missing a market
// day resets the streak even when both surrounding rows are limit-up. Daily
// bars cannot distinguish a suspension gap from continuous trading, so this
// reset is a documented lossy approximation, not a fault.
func LabelInstrument(bars []models.DailyBar, rule rules.Rule, applicable []bool, cal *Calendar, eps decimal.Decimal) ([]models.LabeledBar, error) {
	if len(applicable) != len(bars) {
		return nil, fmt.Errorf("applicability length %d does not match %d bars", len(applicable), len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].TsCode != bars[0].TsCode {
			return nil, fmt.Errorf("bars mix instruments %s and %s", bars[0].TsCode, bars[i].TsCode)
		}
		if bars[i].TradeDate <= bars[i-1].TradeDate {
			return nil, fmt.Errorf("bars for %s are not strictly ascending at %s", bars[i].TsCode, bars[i].TradeDate)
		}
	}

	labeled := make([]models.LabeledBar, len(bars))
	prevLimitUp := false
	prevStreak := 0
	prevDate := ""

	for i, bar := range bars {
		limitPrice := rules.LimitUpPrice(bar.PreClose, rule.LimitUp)

		closeAtLimit := approxEq(bar.Close, limitPrice, eps)
		highAtLimit := approxEq(bar.High, limitPrice, eps)
		openAtLimit := approxEq(bar.Open, limitPrice, eps)
		lowAtLimit := approxEq(bar.Low, limitPrice, eps)
		lowBelowLimit := bar.Low.LessThan(limitPrice.Sub(eps))

		row := models.LabeledBar{
			DailyBar:             bar,
			LimitUpPrice:         limitPrice,
			PriceLimitApplicable: applicable[i],
		}
		row.LabelLimitUp = applicable[i] && closeAtLimit && highAtLimit
		row.LabelOneWord = openAtLimit && highAtLimit && lowAtLimit && closeAtLimit
		row.LabelOpened = applicable[i] && highAtLimit && lowBelowLimit
		row.LabelSealed = row.LabelLimitUp && !row.LabelOpened

		if row.LabelLimitUp {
			if prevLimitUp && cal.Adjacent(prevDate, bar.TradeDate) {
				row.StreakUp = prevStreak + 1
			} else {
				row.StreakUp = 1
			}
		}

		labeled[i] = row
		prevLimitUp = row.LabelLimitUp
		prevStreak = row.StreakUp
		prevDate = bar.TradeDate
	}
	return labeled, nil
}

// ExcludeSuspended drops rows with zero traded volume. Suspended days carry
// no tradable information and would otherwise pollute streaks and triggers.
func ExcludeSuspended(bars []models.DailyBar) []models.DailyBar {
	kept := make([]models.DailyBar, 0, len(bars))
	for _, bar := range bars {
		if bar.Vol.Sign() > 0 {
			kept = append(kept, bar)
		}
	}
	return kept
}

// ExcludeUnlimitedDays drops labeled rows where price limits do not apply.
// The backtest trigger selection uses it so IPO-window rows never become
// trade candidates.
func ExcludeUnlimitedDays(rows []models.LabeledBar) []models.LabeledBar {
	kept := make([]models.LabeledBar, 0, len(rows))
	for _, row := range rows {
		if row.PriceLimitApplicable {
			kept = append(kept, row)
		}
	}
	return kept
}
