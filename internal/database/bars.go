package database

import (
	"fmt"
	"time"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// UpsertInstrument inserts or updates one instrument record
func (db *DB) UpsertInstrument(inst *models.Instrument) error {
	query := `
		INSERT INTO instruments (ts_code, name, board, is_st, list_date, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (ts_code) DO UPDATE SET
			name = EXCLUDED.name,
			board = EXCLUDED.board,
			is_st = EXCLUDED.is_st,
			list_date = EXCLUDED.list_date,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.conn.Exec(query, inst.TsCode, inst.Name, inst.Board, inst.IsST, inst.ListDate, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert instrument %s: %w", inst.TsCode, err)
	}
	return nil
}

// UpsertDailyBar inserts or updates one daily bar
func (db *DB) UpsertDailyBar(bar *models.DailyBar) error {
	query := `
		INSERT INTO daily_bars (ts_code, trade_date, open, high, low, close, pre_close, vol, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			pre_close = EXCLUDED.pre_close,
			vol = EXCLUDED.vol,
			amount = EXCLUDED.amount
	`
	_, err := db.conn.Exec(query,
		bar.TsCode, bar.TradeDate, bar.Open, bar.High, bar.Low, bar.Close, bar.PreClose, bar.Vol, bar.Amount, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily bar %s %s: %w", bar.TsCode, bar.TradeDate, err)
	}
	return nil
}

// UpsertDailyBarsBatch inserts multiple daily bars in one transaction
func (db *DB) UpsertDailyBarsBatch(bars []models.DailyBar) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_bars (ts_code, trade_date, open, high, low, close, pre_close, vol, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (ts_code, trade_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			pre_close = EXCLUDED.pre_close,
			vol = EXCLUDED.vol,
			amount = EXCLUDED.amount
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, bar := range bars {
		_, err := stmt.Exec(bar.TsCode, bar.TradeDate, bar.Open, bar.High, bar.Low, bar.Close, bar.PreClose, bar.Vol, bar.Amount, now)
		if err != nil {
			return fmt.Errorf("failed to insert daily bar for %s: %w", bar.TsCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetAllInstruments retrieves every instrument record
func (db *DB) GetAllInstruments() ([]models.Instrument, error) {
	query := `
		SELECT ts_code, name, board, is_st, COALESCE(list_date, '')
		FROM instruments
		ORDER BY ts_code
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get instruments: %w", err)
	}
	defer rows.Close()

	var instruments []models.Instrument
	for rows.Next() {
		var inst models.Instrument
		if err := rows.Scan(&inst.TsCode, &inst.Name, &inst.Board, &inst.IsST, &inst.ListDate); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, inst)
	}
	return instruments, rows.Err()
}

// GetAllDailyBars retrieves every daily bar ordered by instrument and date
func (db *DB) GetAllDailyBars() ([]models.DailyBar, error) {
	query := `
		SELECT ts_code, trade_date, open, high, low, close, pre_close, vol, amount
		FROM daily_bars
		ORDER BY ts_code, trade_date
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars: %w", err)
	}
	defer rows.Close()

	var bars []models.DailyBar
	for rows.Next() {
		var bar models.DailyBar
		err := rows.Scan(
			&bar.TsCode, &bar.TradeDate, &bar.Open, &bar.High, &bar.Low,
			&bar.Close, &bar.PreClose, &bar.Vol, &bar.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily bar: %w", err)
		}
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}

// GetDailyBarsBySymbol retrieves one instrument's bars ordered by date
func (db *DB) GetDailyBarsBySymbol(tsCode string) ([]models.DailyBar, error) {
	query := `
		SELECT ts_code, trade_date, open, high, low, close, pre_close, vol, amount
		FROM daily_bars
		WHERE ts_code = $1
		ORDER BY trade_date
	`
	rows, err := db.conn.Query(query, tsCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", tsCode, err)
	}
	defer rows.Close()

	var bars []models.DailyBar
	for rows.Next() {
		var bar models.DailyBar
		err := rows.Scan(
			&bar.TsCode, &bar.TradeDate, &bar.Open, &bar.High, &bar.Low,
			&bar.Close, &bar.PreClose, &bar.Vol, &bar.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily bar: %w", err)
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no daily bars found for %s", tsCode)
	}
	return bars, rows.Err()
}
