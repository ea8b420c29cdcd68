package db

import (
	"fmt"
	"time"

	"worklistmon/models"
)

// Run is one recorded monitoring run.
type Run struct {
	ID                int64
	RunUUID           string
	StartedAt         time.Time
	Timezone          string
	BaseURL           string
	AllowedWindow     bool
	Bucket60          int
	Bucket90          int
	Bucket120         int
	Total             int
	Threshold         int
	AlertTriggered    bool
	RowsSeen          int
	StudiesConsidered int
	Error             string
}

// InsertRun records a run and its included rows, returning the run's row id.
func (db *DB) InsertRun(run Run, rows []models.IncludedRow) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (run_uuid, started_at, timezone, base_url, allowed_window,
			bucket_60, bucket_90, bucket_120, total, threshold, alert_triggered,
			rows_seen, studies_considered, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunUUID, run.StartedAt.Format(time.RFC3339), run.Timezone, run.BaseURL,
		boolInt(run.AllowedWindow), run.Bucket60, run.Bucket90, run.Bucket120,
		run.Total, run.Threshold, boolInt(run.AlertTriggered),
		run.RowsSeen, run.StudiesConsidered, run.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, r := range rows {
		if _, err := tx.Exec(`
			INSERT INTO run_rows (run_id, bucket, age_minutes, mentions, study_text)
			VALUES (?, ?, ?, ?, ?)`,
			runID, string(r.Bucket), r.AgeMinutes, r.Mentions, r.StudyText); err != nil {
			return 0, fmt.Errorf("failed to insert run row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// InsertDeliveries records per-recipient notification outcomes for a run.
func (db *DB) InsertDeliveries(runID int64, results []models.DeliveryResult) error {
	for _, r := range results {
		if _, err := db.Exec(`
			INSERT INTO deliveries (run_id, recipient, chat_id, delivered, error)
			VALUES (?, ?, ?, ?, ?)`,
			runID, r.Recipient, r.ChatID, boolInt(r.Delivered), r.Error); err != nil {
			return fmt.Errorf("failed to insert delivery: %w", err)
		}
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT id, run_uuid, started_at, timezone, base_url, allowed_window,
			bucket_60, bucket_90, bucket_120, total, threshold, alert_triggered,
			rows_seen, studies_considered, error
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var allowed, triggered int
		if err := rows.Scan(&r.ID, &r.RunUUID, &started, &r.Timezone, &r.BaseURL,
			&allowed, &r.Bucket60, &r.Bucket90, &r.Bucket120, &r.Total,
			&r.Threshold, &triggered, &r.RowsSeen, &r.StudiesConsidered, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.AllowedWindow = allowed != 0
		r.AlertTriggered = triggered != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunRows returns the included rows recorded for a run.
func (db *DB) RunRows(runID int64) ([]models.IncludedRow, error) {
	rows, err := db.Query(`
		SELECT bucket, age_minutes, mentions, study_text
		FROM run_rows WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run rows: %w", err)
	}
	defer rows.Close()

	var out []models.IncludedRow
	for rows.Next() {
		var r models.IncludedRow
		var bucket string
		if err := rows.Scan(&bucket, &r.AgeMinutes, &r.Mentions, &r.StudyText); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.Bucket = models.Bucket(bucket)
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
