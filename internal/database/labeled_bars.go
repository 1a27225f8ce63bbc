package database

import (
	"database/sql"
	"fmt"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// CreateLabeledBarsBatch inserts a run's labeled rows in one transaction
func (db *DB) CreateLabeledBarsBatch(runID int, rows []models.LabeledBar) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO labeled_bars (
			run_id, ts_code, trade_date, open, high, low, close, pre_close, vol, amount,
			limit_up_price, price_limit_applicable,
			label_limit_up, label_one_word, label_opened, label_sealed, streak_up,
			next_open_ret, next_close_ret
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(
			runID, row.TsCode, row.TradeDate,
			row.Open, row.High, row.Low, row.Close, row.PreClose, row.Vol, row.Amount,
			row.LimitUpPrice, row.PriceLimitApplicable,
			row.LabelLimitUp, row.LabelOneWord, row.LabelOpened, row.LabelSealed, row.StreakUp,
			nullableFloat(row.NextOpenRet), nullableFloat(row.NextCloseRet),
		)
		if err != nil {
			return fmt.Errorf("failed to insert labeled bar for %s: %w", row.TsCode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetLabeledBars retrieves a run's labeled rows ordered by instrument and date
func (db *DB) GetLabeledBars(runID int) ([]models.LabeledBar, error) {
	query := `
		SELECT ts_code, trade_date, open, high, low, close, pre_close, vol, amount,
		       limit_up_price, price_limit_applicable,
		       label_limit_up, label_one_word, label_opened, label_sealed, streak_up,
		       next_open_ret, next_close_ret
		FROM labeled_bars
		WHERE run_id = $1
		ORDER BY ts_code, trade_date
	`
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get labeled bars: %w", err)
	}
	defer rows.Close()

	var labeled []models.LabeledBar
	for rows.Next() {
		var row models.LabeledBar
		var nextOpen, nextClose sql.NullFloat64

		err := rows.Scan(
			&row.TsCode, &row.TradeDate, &row.Open, &row.High, &row.Low,
			&row.Close, &row.PreClose, &row.Vol, &row.Amount,
			&row.LimitUpPrice, &row.PriceLimitApplicable,
			&row.LabelLimitUp, &row.LabelOneWord, &row.LabelOpened, &row.LabelSealed, &row.StreakUp,
			&nextOpen, &nextClose,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan labeled bar: %w", err)
		}

		if nextOpen.Valid {
			v := nextOpen.Float64
			row.NextOpenRet = &v
		}
		if nextClose.Valid {
			v := nextClose.Float64
			row.NextCloseRet = &v
		}
		labeled = append(labeled, row)
	}
	return labeled, rows.Err()
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
