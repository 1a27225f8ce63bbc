package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// CreateRun inserts a new run record and fills in its ID
func (db *DB) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO runs (strategy, fee_bps, slippage_bps, epsilon, status, diagnostics, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := db.conn.QueryRow(query,
		run.Strategy, run.FeeBps, run.SlippageBps, run.Epsilon, run.Status,
		pq.Array(run.Diagnostics), time.Now(),
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(id int) (*models.Run, error) {
	query := `
		SELECT id, strategy, fee_bps, slippage_bps, epsilon, status, diagnostics, created_at
		FROM runs
		WHERE id = $1
	`
	var run models.Run
	err := db.conn.QueryRow(query, id).Scan(
		&run.ID, &run.Strategy, &run.FeeBps, &run.SlippageBps, &run.Epsilon,
		&run.Status, pq.Array(&run.Diagnostics), &run.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// SaveScenarioMetrics stores the summary metrics of one fill-model scenario
func (db *DB) SaveScenarioMetrics(runID int, m *models.ScenarioMetrics) error {
	query := `
		INSERT INTO scenario_metrics (run_id, fill_model, trade_count, total_return, max_drawdown, win_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id, fill_model) DO UPDATE SET
			trade_count = EXCLUDED.trade_count,
			total_return = EXCLUDED.total_return,
			max_drawdown = EXCLUDED.max_drawdown,
			win_rate = EXCLUDED.win_rate
	`
	_, err := db.conn.Exec(query, runID, m.FillModel, m.TradeCount, m.TotalReturn, m.MaxDrawdown, m.WinRate)
	if err != nil {
		return fmt.Errorf("failed to save scenario metrics: %w", err)
	}
	return nil
}

// GetScenarioMetrics retrieves the metrics of both scenarios for a run
func (db *DB) GetScenarioMetrics(runID int) ([]models.ScenarioMetrics, error) {
	query := `
		SELECT fill_model, trade_count, total_return, max_drawdown, win_rate
		FROM scenario_metrics
		WHERE run_id = $1
		ORDER BY fill_model
	`
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scenario metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.ScenarioMetrics
	for rows.Next() {
		var m models.ScenarioMetrics
		if err := rows.Scan(&m.FillModel, &m.TradeCount, &m.TotalReturn, &m.MaxDrawdown, &m.WinRate); err != nil {
			return nil, fmt.Errorf("failed to scan scenario metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
