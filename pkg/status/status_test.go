package status

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"worklistmon/models"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	s := &Status{
		RunID:         "abc-123",
		Timestamp:     "2025-09-16T21:00:00-04:00",
		Timezone:      "America/New_York",
		AllowedWindow: true,
		Counts:        map[models.Bucket]int{models.Bucket60: 3, models.Bucket90: 1, models.Bucket120: 2},
		Total:         6,
		Threshold:     20,
		Scrape: Scrape{
			RowsSeen:          40,
			StudiesConsidered: 12,
			BaseURL:           "https://avrteleris.com",
		},
	}
	if err := WriteJSON(dir, s); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "status.json"))
	if err != nil {
		t.Fatalf("read status.json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("status.json is not valid JSON: %v", err)
	}
	if decoded["total_ctmr_60_90_120"].(float64) != 6 {
		t.Errorf("total_ctmr_60_90_120 = %v", decoded["total_ctmr_60_90_120"])
	}
	scrape := decoded["scrape"].(map[string]any)
	if _, ok := scrape["errors"].([]any); !ok {
		t.Errorf("scrape.errors = %v, want an array even when empty", scrape["errors"])
	}
}

func TestWriteCountsCSV(t *testing.T) {
	dir := t.TempDir()
	rows := []models.IncludedRow{
		{Bucket: models.Bucket60, AgeMinutes: 75, Mentions: 2, StudyText: "CT HEAD, MRI BRAIN"},
		{Bucket: models.Bucket120, AgeMinutes: 140, Mentions: 1, StudyText: "CT ABDOMEN"},
	}
	if err := WriteCountsCSV(dir, rows); err != nil {
		t.Fatalf("WriteCountsCSV() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "last_counts.csv"))
	if err != nil {
		t.Fatalf("open last_counts.csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("CSV has %d records, want header + 2 rows", len(records))
	}
	if strings.Join(records[0], ",") != "bucket,age_min,mentions,study_cell" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "60" || records[1][3] != "CT HEAD, MRI BRAIN" {
		t.Errorf("first row = %v", records[1])
	}
}

func TestWriteCountsCSV_Empty(t *testing.T) {
	dir := t.TempDir()
	if err := WriteCountsCSV(dir, nil); err != nil {
		t.Fatalf("WriteCountsCSV(nil) error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "last_counts.csv"))
	if err != nil {
		t.Fatalf("read last_counts.csv: %v", err)
	}
	if !strings.HasPrefix(string(data), "bucket,age_min") {
		t.Errorf("empty run should still write the header, got %q", data)
	}
}
