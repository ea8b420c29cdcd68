package db

import (
	"testing"
	"time"

	"worklistmon/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleRun(uuid string) Run {
	return Run{
		RunUUID:           uuid,
		StartedAt:         time.Date(2025, 9, 16, 21, 0, 0, 0, time.UTC),
		Timezone:          "America/New_York",
		BaseURL:           "https://avrteleris.com",
		AllowedWindow:     true,
		Bucket60:          3,
		Bucket90:          1,
		Bucket120:         2,
		Total:             6,
		Threshold:         20,
		RowsSeen:          40,
		StudiesConsidered: 12,
	}
}

func TestInsertRunRoundTrip(t *testing.T) {
	database := setupTestDB(t)

	rows := []models.IncludedRow{
		{Bucket: models.Bucket60, AgeMinutes: 75, Mentions: 2, StudyText: "CT HEAD, MRI BRAIN"},
		{Bucket: models.Bucket120, AgeMinutes: 140, Mentions: 1, StudyText: "CT ABDOMEN"},
	}
	runID, err := database.InsertRun(sampleRun("run-1"), rows)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	runs, err := database.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns() returned %d runs, want 1", len(runs))
	}
	got := runs[0]
	if got.RunUUID != "run-1" || got.Total != 6 || got.Bucket60 != 3 || !got.AllowedWindow {
		t.Errorf("round-tripped run = %+v", got)
	}
	if !got.StartedAt.Equal(time.Date(2025, 9, 16, 21, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v, want original instant", got.StartedAt)
	}

	stored, err := database.RunRows(runID)
	if err != nil {
		t.Fatalf("RunRows() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("RunRows() returned %d rows, want 2", len(stored))
	}
	if stored[0].Bucket != models.Bucket60 || stored[0].Mentions != 2 {
		t.Errorf("stored[0] = %+v", stored[0])
	}
	if stored[1].StudyText != "CT ABDOMEN" {
		t.Errorf("stored[1].StudyText = %q", stored[1].StudyText)
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	database := setupTestDB(t)

	for _, uuid := range []string{"run-a", "run-b", "run-c"} {
		if _, err := database.InsertRun(sampleRun(uuid), nil); err != nil {
			t.Fatalf("InsertRun(%s) error = %v", uuid, err)
		}
	}

	runs, err := database.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns(2) returned %d runs", len(runs))
	}
	if runs[0].RunUUID != "run-c" || runs[1].RunUUID != "run-b" {
		t.Errorf("order = %s, %s; want newest first", runs[0].RunUUID, runs[1].RunUUID)
	}
}

func TestInsertDeliveries(t *testing.T) {
	database := setupTestDB(t)

	runID, err := database.InsertRun(sampleRun("run-1"), nil)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	results := []models.DeliveryResult{
		{Recipient: "alice", ChatID: 100, Delivered: true},
		{Recipient: "bob", ChatID: 200, Delivered: false, Error: "chat not found"},
	}
	if err := database.InsertDeliveries(runID, results); err != nil {
		t.Fatalf("InsertDeliveries() error = %v", err)
	}

	var delivered int
	var errText string
	err = database.QueryRow(
		"SELECT delivered, error FROM deliveries WHERE recipient = ?", "bob").
		Scan(&delivered, &errText)
	if err != nil {
		t.Fatalf("query delivery: %v", err)
	}
	if delivered != 0 || errText != "chat not found" {
		t.Errorf("bob's delivery = (%d, %q)", delivered, errText)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	if _, err := first.InsertRun(sampleRun("run-1"), nil); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	first.Close()

	second, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer second.Close()

	runs, err := second.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("reopened database lost data: %d runs", len(runs))
	}
}
