package ingest

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// barRecord is the Parquet row shape for daily bars.
type barRecord struct {
	TsCode    string  `parquet:"ts_code"`
	TradeDate string  `parquet:"trade_date"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	PreClose  float64 `parquet:"pre_close"`
	Vol       float64 `parquet:"vol"`
	Amount    float64 `parquet:"amount"`
}

// instrumentRecord is the Parquet row shape for instruments.
type instrumentRecord struct {
	TsCode   string `parquet:"ts_code"`
	Name     string `parquet:"name,optional"`
	Board    string `parquet:"board,optional"`
	IsST     bool   `parquet:"is_st,optional"`
	ListDate string `parquet:"list_date,optional"`
}

// ReadBarsParquet loads a DailyBar table from a Parquet file.
func ReadBarsParquet(path string) ([]models.DailyBar, error) {
	records, err := parquet.ReadFile[barRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bars parquet: %w", err)
	}

	bars := make([]models.DailyBar, len(records))
	for i, r := range records {
		bars[i] = models.DailyBar{
			TsCode:    strings.TrimSpace(r.TsCode),
			TradeDate: strings.TrimSpace(r.TradeDate),
			Open:      decimal.NewFromFloat(r.Open),
			High:      decimal.NewFromFloat(r.High),
			Low:       decimal.NewFromFloat(r.Low),
			Close:     decimal.NewFromFloat(r.Close),
			PreClose:  decimal.NewFromFloat(r.PreClose),
			Vol:       decimal.NewFromFloat(r.Vol),
			Amount:    decimal.NewFromFloat(r.Amount),
		}
	}

	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// ReadInstrumentsParquet loads an Instrument table from a Parquet file.
func ReadInstrumentsParquet(path string) ([]models.Instrument, error) {
	records, err := parquet.ReadFile[instrumentRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instruments parquet: %w", err)
	}

	instruments := make([]models.Instrument, len(records))
	for i, r := range records {
		board := strings.ToUpper(strings.TrimSpace(r.Board))
		if board == "" {
			board = models.BoardUnknown
		}
		instruments[i] = models.Instrument{
			TsCode:   strings.TrimSpace(r.TsCode),
			Name:     strings.TrimSpace(r.Name),
			Board:    board,
			IsST:     r.IsST,
			ListDate: strings.TrimSpace(r.ListDate),
		}
	}

	if err := models.ValidateInstruments(instruments); err != nil {
		return nil, err
	}
	return instruments, nil
}

// ReadBars dispatches on the file extension (.csv or .parquet).
func ReadBars(path string) ([]models.DailyBar, error) {
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		return ReadBarsParquet(path)
	}
	return ReadBarsCSV(path)
}

// ReadInstruments dispatches on the file extension (.csv or .parquet).
func ReadInstruments(path string) ([]models.Instrument, error) {
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		return ReadInstrumentsParquet(path)
	}
	return ReadInstrumentsCSV(path)
}
