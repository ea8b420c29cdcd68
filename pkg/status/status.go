// Package status writes the machine-readable snapshot of each run:
// status.json for downstream tooling and last_counts.csv for eyeballing
// which rows were counted.
package status

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"worklistmon/models"
)

// Notification summarizes delivery outcomes.
type Notification struct {
	RecipientsSent   []string                `json:"recipients_sent"`
	RecipientsFailed []string                `json:"recipients_failed"`
	Results          []models.DeliveryResult `json:"results"`
}

// Status is the per-run snapshot. The run always produces one, even when it
// represents total failure as zero counts plus an error list.
type Status struct {
	RunID          string                `json:"run_id"`
	Timestamp      string                `json:"timestamp"`
	Timezone       string                `json:"timezone"`
	AllowedWindow  bool                  `json:"allowed_window"`
	Counts         map[models.Bucket]int `json:"counts"`
	Total          int                   `json:"total_ctmr_60_90_120"`
	Threshold      int                   `json:"threshold_total"`
	AlertTriggered bool                  `json:"alert_triggered"`
	Message        string                `json:"message"`
	Notification   Notification          `json:"notification"`
	Scrape         Scrape                `json:"scrape"`
}

// Scrape carries extraction debug fields.
type Scrape struct {
	RowsSeen          int      `json:"rows_seen"`
	StudiesConsidered int      `json:"ctmr_considered"`
	Errors            []string `json:"errors"`
	BaseURL           string   `json:"base_url"`
}

// WriteJSON writes the snapshot to dir/status.json.
func WriteJSON(dir string, s *Status) error {
	if s.Scrape.Errors == nil {
		s.Scrape.Errors = []string{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	path := filepath.Join(dir, "status.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteCountsCSV writes the included rows to dir/last_counts.csv.
func WriteCountsCSV(dir string, rows []models.IncludedRow) error {
	path := filepath.Join(dir, "last_counts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"bucket", "age_min", "mentions", "study_cell"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			string(r.Bucket),
			strconv.Itoa(r.AgeMinutes),
			strconv.Itoa(r.Mentions),
			r.StudyText,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
