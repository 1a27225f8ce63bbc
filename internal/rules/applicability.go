package rules

import (
	"github.com/trogers1052/limitup-lab/internal/models"
)

// ApplicableDays reports, for each of an instrument's observed trade dates
// (distinct, sorted ascending), whether price limits apply on that day.
//
// Limits do not apply during the instrument's first IPOUnlimitedDays
// observed trading days on or after its list date. The offset is counted
// over the trading days actually present in the dataset, not calendar days;
// there is no external exchange-calendar dependency. A missing list_date
// means limits are assumed to apply throughout.
func ApplicableDays(inst models.Instrument, dates []string, rule Rule) []bool {
	applicable := make([]bool, len(dates))
	if inst.ListDate == "" {
		for i := range applicable {
			applicable[i] = true
		}
		return applicable
	}

	tradingDaysSinceListing := 0
	for i, d := range dates {
		if d >= inst.ListDate {
			tradingDaysSinceListing++
		}
		// tradingDaysSinceListing is 1 on the listing day itself; rows
		// dated before the list date are treated as not applicable.
		applicable[i] = tradingDaysSinceListing > rule.IPOUnlimitedDays
	}
	return applicable
}
