package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

// Insert appends one scenario history record. The full record is stored
// as JSON alongside the columns used for trimming and inspection.
func (db *DB) Insert(ctx context.Context, rec *models.ScenarioHistoryRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	query := `
		INSERT INTO scenario_history (id, scenario_name, scenario_type, scenario_scope, recorded_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = db.conn.ExecContext(ctx, query,
		rec.ID, rec.ScenarioName, rec.ScenarioType, rec.ScenarioScope, rec.Timestamp, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}

// LoadRecent returns up to n history records, newest first. Rows whose
// payload no longer decodes are skipped so one corrupt entry cannot
// block startup.
func (db *DB) LoadRecent(ctx context.Context, n int) ([]models.ScenarioHistoryRecord, error) {
	query := `
		SELECT payload
		FROM scenario_history
		ORDER BY recorded_at DESC, id
		LIMIT $1
	`
	rows, err := db.conn.QueryContext(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history records: %w", err)
	}
	defer rows.Close()

	var records []models.ScenarioHistoryRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}

		var rec models.ScenarioHistoryRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history records: %w", err)
	}
	return records, nil
}

// TrimTo deletes everything but the n newest history records.
func (db *DB) TrimTo(ctx context.Context, n int) error {
	query := `
		DELETE FROM scenario_history
		WHERE id NOT IN (
			SELECT id FROM scenario_history
			ORDER BY recorded_at DESC, id
			LIMIT $1
		)
	`
	if _, err := db.conn.ExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to trim history records: %w", err)
	}
	return nil
}

// Clear deletes all history records.
func (db *DB) Clear(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM scenario_history`); err != nil {
		return fmt.Errorf("failed to clear history records: %w", err)
	}
	return nil
}

// CountHistoryRecords returns the number of persisted records.
func (db *DB) CountHistoryRecords(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM scenario_history`).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count history records: %w", err)
	}
	return count, nil
}

// OldestHistoryTimestamp returns the recorded_at of the oldest retained
// record, or the zero time when the table is empty.
func (db *DB) OldestHistoryTimestamp(ctx context.Context) (time.Time, error) {
	var ts sql.NullTime
	err := db.conn.QueryRowContext(ctx, `SELECT MIN(recorded_at) FROM scenario_history`).Scan(&ts)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read oldest history timestamp: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return ts.Time, nil
}
