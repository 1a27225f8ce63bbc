package database

import (
	"encoding/json"
	"fmt"

	"github.com/trogers1052/limitup-lab/internal/models"
)

// CreateGroupStatsBatch inserts a run's grouped statistics in one transaction
func (db *DB) CreateGroupStatsBatch(runID int, groupStats []models.GroupStat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO group_stats (
			run_id, groups, row_count,
			next_open_count, next_open_mean, next_open_p10, next_open_p50, next_open_p90,
			next_close_count, next_close_mean, next_close_p10, next_close_p50, next_close_p90
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, gs := range groupStats {
		groups, err := json.Marshal(gs.Groups)
		if err != nil {
			return fmt.Errorf("failed to marshal group keys: %w", err)
		}
		_, err = stmt.Exec(
			runID, groups, gs.Count,
			gs.NextOpen.Count, gs.NextOpen.Mean, gs.NextOpen.P10, gs.NextOpen.P50, gs.NextOpen.P90,
			gs.NextClose.Count, gs.NextClose.Mean, gs.NextClose.P10, gs.NextClose.P50, gs.NextClose.P90,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroupStats retrieves a run's grouped statistics
func (db *DB) GetGroupStats(runID int) ([]models.GroupStat, error) {
	query := `
		SELECT groups, row_count,
		       next_open_count, next_open_mean, next_open_p10, next_open_p50, next_open_p90,
		       next_close_count, next_close_mean, next_close_p10, next_close_p50, next_close_p90
		FROM group_stats
		WHERE run_id = $1
		ORDER BY id
	`
	rows, err := db.conn.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group stats: %w", err)
	}
	defer rows.Close()

	var groupStats []models.GroupStat
	for rows.Next() {
		var gs models.GroupStat
		var groups []byte
		err := rows.Scan(
			&groups, &gs.Count,
			&gs.NextOpen.Count, &gs.NextOpen.Mean, &gs.NextOpen.P10, &gs.NextOpen.P50, &gs.NextOpen.P90,
			&gs.NextClose.Count, &gs.NextClose.Mean, &gs.NextClose.P10, &gs.NextClose.P50, &gs.NextClose.P90,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group stats: %w", err)
		}
		if err := json.Unmarshal(groups, &gs.Groups); err != nil {
			return nil, fmt.Errorf("failed to unmarshal group keys: %w", err)
		}
		groupStats = append(groupStats, gs)
	}
	return groupStats, rows.Err()
}
