package models

import (
	"github.com/shopspring/decimal"
)

// LabeledBar is a DailyBar joined with the derived limit-up labels, the
// streak counter and the forward-looking returns. Labels are derived once
// per (ts_code, trade_date) and never mutated afterwards.
type LabeledBar struct {
	DailyBar

	LimitUpPrice         decimal.Decimal `json:"limit_up_price"`
	PriceLimitApplicable bool            `json:"price_limit_applicable"`
	LabelLimitUp         bool            `json:"label_limit_up"`
	LabelOneWord         bool            `json:"label_one_word"`
	LabelOpened          bool            `json:"label_opened"`
	LabelSealed          bool            `json:"label_sealed"`
	StreakUp             int             `json:"streak_up"`

	// Forward returns are nil on the last observed row of an instrument;
	// missing is never coerced to zero.
	NextOpenRet  *float64 `json:"next_open_ret,omitempty"`
	NextCloseRet *float64 `json:"next_close_ret,omitempty"`
}
