// Package returns computes forward-looking open/close returns per
// instrument against its own immediately-following row.
package returns

import (
	"github.com/trogers1052/limitup-lab/internal/models"
)

// AddNextDayReturns fills NextOpenRet and NextCloseRet in place for one
// instrument's rows, which must already be sorted ascending by trade date.
// The last row has no successor; its return fields stay nil (missing is
// propagated, never coerced to zero).
func AddNextDayReturns(rows []models.LabeledBar) {
	for i := 0; i < len(rows)-1; i++ {
		next := rows[i+1]
		if rows[i].Close.Sign() == 0 {
			continue
		}
		openRet := next.Open.Div(rows[i].Close).InexactFloat64() - 1
		closeRet := next.Close.Div(rows[i].Close).InexactFloat64() - 1
		rows[i].NextOpenRet = &openRet
		rows[i].NextCloseRet = &closeRet
	}
}
