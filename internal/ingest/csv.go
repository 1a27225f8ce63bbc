// Package ingest reads canonical DailyBar and Instrument tables from CSV or
// Parquet files and validates them before any computation starts.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/limitup-lab/internal/models"
)

var barColumns = []string{"ts_code", "trade_date", "open", "high", "low", "close", "pre_close", "vol", "amount"}
var instrumentColumns = []string{"ts_code"}

// ReadBarsCSV loads a DailyBar table from a CSV file with a header row.
func ReadBarsCSV(path string) ([]models.DailyBar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bars file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read bars header: %w", err)
	}
	index, err := columnIndex(header, barColumns, "daily_bars")
	if err != nil {
		return nil, err
	}

	var bars []models.DailyBar
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bars row %d: %w", row, err)
		}

		bar := models.DailyBar{
			TsCode:    strings.TrimSpace(record[index["ts_code"]]),
			TradeDate: strings.TrimSpace(record[index["trade_date"]]),
		}
		for _, field := range []struct {
			name string
			dst  *decimal.Decimal
		}{
			{"open", &bar.Open}, {"high", &bar.High}, {"low", &bar.Low},
			{"close", &bar.Close}, {"pre_close", &bar.PreClose},
			{"vol", &bar.Vol}, {"amount", &bar.Amount},
		} {
			value, err := decimal.NewFromString(strings.TrimSpace(record[index[field.name]]))
			if err != nil {
				return nil, &models.SchemaError{Table: "daily_bars", Row: row, Field: field.name, Reason: "is not a number"}
			}
			*field.dst = value
		}
		bars = append(bars, bar)
	}

	if err := models.ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// ReadInstrumentsCSV loads an Instrument table from a CSV file with a header
// row. Missing board/is_st/list_date columns fall back to UNKNOWN/false/"".
func ReadInstrumentsCSV(path string) ([]models.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instruments file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read instruments header: %w", err)
	}
	index, err := columnIndex(header, instrumentColumns, "instruments")
	if err != nil {
		return nil, err
	}

	var instruments []models.Instrument
	for row := 0; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read instruments row %d: %w", row, err)
		}

		inst := models.Instrument{
			TsCode: strings.TrimSpace(record[index["ts_code"]]),
			Board:  models.BoardUnknown,
		}
		if i, ok := index["name"]; ok {
			inst.Name = strings.TrimSpace(record[i])
		}
		if i, ok := index["board"]; ok {
			if board := strings.ToUpper(strings.TrimSpace(record[i])); board != "" {
				inst.Board = board
			}
		}
		if i, ok := index["is_st"]; ok {
			inst.IsST = parseBool(record[i])
		}
		if i, ok := index["list_date"]; ok {
			inst.ListDate = strings.TrimSpace(record[i])
		}
		instruments = append(instruments, inst)
	}

	if err := models.ValidateInstruments(instruments); err != nil {
		return nil, err
	}
	return instruments, nil
}

func columnIndex(header, required []string, table string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, &models.SchemaError{Table: table, Row: 0, Field: name, Reason: "column is missing"}
		}
	}
	return index, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}
