package models

import (
	"fmt"
	"time"
)

// SchemaError reports input rows that are missing required fields or carry
// values of the wrong semantic type. Schema errors are fatal and surface
// before any computation starts.
type SchemaError struct {
	Table  string
	Row    int
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error in %s row %d: field %q %s", e.Table, e.Row, e.Field, e.Reason)
}

// ValidDate reports whether s is a parseable YYYYMMDD calendar day.
func ValidDate(s string) bool {
	if len(s) != 8 {
		return false
	}
	_, err := time.Parse("20060102", s)
	return err == nil
}

// ValidateBars checks the DailyBar table: non-empty ts_code, parseable
// trade_date, positive prices and no duplicate (ts_code, trade_date) pairs.
func ValidateBars(bars []DailyBar) error {
	seen := make(map[string]struct{}, len(bars))
	for i, b := range bars {
		if b.TsCode == "" {
			return &SchemaError{Table: "daily_bars", Row: i, Field: "ts_code", Reason: "is empty"}
		}
		if !ValidDate(b.TradeDate) {
			return &SchemaError{Table: "daily_bars", Row: i, Field: "trade_date", Reason: fmt.Sprintf("%q is not a YYYYMMDD date", b.TradeDate)}
		}
		for _, p := range []struct {
			name  string
			value interface{ Sign() int }
		}{
			{"open", b.Open}, {"high", b.High}, {"low", b.Low},
			{"close", b.Close}, {"pre_close", b.PreClose},
		} {
			if p.value.Sign() <= 0 {
				return &SchemaError{Table: "daily_bars", Row: i, Field: p.name, Reason: "must be a positive price"}
			}
		}
		key := b.TsCode + "|" + b.TradeDate
		if _, dup := seen[key]; dup {
			return &SchemaError{Table: "daily_bars", Row: i, Field: "trade_date", Reason: fmt.Sprintf("duplicate (%s, %s)", b.TsCode, b.TradeDate)}
		}
		seen[key] = struct{}{}
	}
	return nil
}

// ValidateInstruments checks the Instrument table: non-empty ts_code and a
// parseable list_date when present. Unknown boards are not a schema error;
// they fall back to the MAIN rule downstream.
func ValidateInstruments(instruments []Instrument) error {
	seen := make(map[string]struct{}, len(instruments))
	for i, inst := range instruments {
		if inst.TsCode == "" {
			return &SchemaError{Table: "instruments", Row: i, Field: "ts_code", Reason: "is empty"}
		}
		if inst.ListDate != "" && !ValidDate(inst.ListDate) {
			return &SchemaError{Table: "instruments", Row: i, Field: "list_date", Reason: fmt.Sprintf("%q is not a YYYYMMDD date", inst.ListDate)}
		}
		if _, dup := seen[inst.TsCode]; dup {
			return &SchemaError{Table: "instruments", Row: i, Field: "ts_code", Reason: fmt.Sprintf("duplicate %s", inst.TsCode)}
		}
		seen[inst.TsCode] = struct{}{}
	}
	return nil
}
