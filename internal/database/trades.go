package database

import (
	"fmt"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// CreateTradesBatch inserts a scenario's trades in one transaction
func (db *DB) CreateTradesBatch(runID int, trades []models.Trade) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trades (run_id, strategy_name, fill_model, ts_code, entry_date, exit_date, entry_price, exit_price, ret_gross, ret_net)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, trade := range trades {
		_, err := stmt.Exec(
			runID, trade.StrategyName, trade.FillModel, trade.TsCode,
			trade.EntryDate, trade.ExitDate, trade.EntryPrice, trade.ExitPrice,
			trade.RetGross, trade.RetNet,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trade for %s: %w", trade.TsCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetTrades retrieves a run's trades for one fill model in deterministic order
func (db *DB) GetTrades(runID int, fillModel string) ([]models.Trade, error) {
	query := `
		SELECT strategy_name, fill_model, ts_code, entry_date, exit_date, entry_price, exit_price, ret_gross, ret_net
		FROM trades
		WHERE run_id = $1 AND fill_model = $2
		ORDER BY exit_date, entry_date, ts_code
	`
	rows, err := db.conn.Query(query, runID, fillModel)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var trade models.Trade
		err := rows.Scan(
			&trade.StrategyName, &trade.FillModel, &trade.TsCode,
			&trade.EntryDate, &trade.ExitDate, &trade.EntryPrice, &trade.ExitPrice,
			&trade.RetGross, &trade.RetNet,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

// CreateEquityPointsBatch inserts a scenario's equity curve in one transaction
func (db *DB) CreateEquityPointsBatch(runID int, fillModel string, points []models.EquityPoint) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO equity_points (run_id, fill_model, date, cumulative_return)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, point := range points {
		if _, err := stmt.Exec(runID, fillModel, point.Date, point.CumulativeReturn); err != nil {
			return fmt.Errorf("failed to insert equity point %s: %w", point.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEquityCurve retrieves a scenario's equity curve ordered by date
func (db *DB) GetEquityCurve(runID int, fillModel string) ([]models.EquityPoint, error) {
	query := `
		SELECT date, cumulative_return
		FROM equity_points
		WHERE run_id = $1 AND fill_model = $2
		ORDER BY date
	`
	rows, err := db.conn.Query(query, runID, fillModel)
	if err != nil {
		return nil, fmt.Errorf("failed to get equity curve: %w", err)
	}
	defer rows.Close()

	var points []models.EquityPoint
	for rows.Next() {
		var point models.EquityPoint
		if err := rows.Scan(&point.Date, &point.CumulativeReturn); err != nil {
			return nil, fmt.Errorf("failed to scan equity point: %w", err)
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
