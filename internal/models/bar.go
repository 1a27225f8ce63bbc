package models

import (
	"github.com/shopspring/decimal"
)

// Board classification constants
const (
	BoardMain    = "MAIN"
	BoardStar    = "STAR"
	BoardChinext = "CHINEXT"
	BoardBSE     = "BSE"
	BoardUnknown = "UNKNOWN"
)

// KnownBoards lists every board value the rule table understands.
var KnownBoards = []string{BoardMain, BoardStar, BoardChinext, BoardBSE, BoardUnknown}

// DailyBar represents one day of OHLCV data for an instrument.
// TradeDate and ListDate are calendar days in YYYYMMDD form; they sort
// lexicographically in chronological order.
type DailyBar struct {
	TsCode    string          `json:"ts_code"`
	TradeDate string          `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PreClose  decimal.Decimal `json:"pre_close"`
	Vol       decimal.Decimal `json:"vol"`
	Amount    decimal.Decimal `json:"amount"`
}

// Instrument represents static reference data for one listed security.
type Instrument struct {
	TsCode   string `json:"ts_code"`
	Name     string `json:"name,omitempty"`
	Board    string `json:"board"`
	IsST     bool   `json:"is_st"`
	ListDate string `json:"list_date,omitempty"`
}
