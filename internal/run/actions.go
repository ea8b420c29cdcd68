package run

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"worklistmon/models"
	"worklistmon/pkg/db"
	"worklistmon/pkg/diag"
	"worklistmon/pkg/notify"
	"worklistmon/pkg/status"
)

// RunAction is the `run` command: one full monitoring pass.
func RunAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("configuration error", 2)
	}
	if c.Bool("force-alert") {
		cfg.ForceAlert = true
	}

	contacts, err := models.LoadContacts(c.String("contacts"))
	if err != nil {
		logger.Error("failed to load contacts", "error", err)
		return cli.Exit("configuration error", 2)
	}

	outputDir := c.String("output-dir")
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		logger.Error("failed to create output directory", "error", err)
		return cli.Exit("configuration error", 2)
	}
	sink, err := diag.NewFileSink(outputDir)
	if err != nil {
		logger.Error("failed to create diagnostics sink", "error", err)
		return cli.Exit("configuration error", 2)
	}

	database, err := db.Open(outputDir)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return cli.Exit("configuration error", 2)
	}
	defer database.Close()

	var notifier notify.Notifier
	if cfg.TelegramToken != "" {
		notifier = notify.NewTelegram(cfg.TelegramToken)
	} else {
		logger.Warn("no telegram token configured; notifications disabled")
	}

	runner := &Runner{
		Config:   cfg,
		Contacts: contacts,
		Sink:     sink,
		Notifier: notifier,
		Logger:   logger,
		DryRun:   c.Bool("dry-run"),
	}

	outcome, err := runner.Execute()
	if err != nil {
		logger.Error("run failed", "error", err)
		return cli.Exit("run error", 2)
	}

	runUUID := uuid.NewString()
	writeSnapshots(logger, outputDir, runUUID, cfg, outcome)
	recordRun(logger, database, runUUID, cfg, outcome)

	if outcome.StructuralErr != "" {
		return cli.Exit("no worklist document reachable", 1)
	}
	return nil
}

func writeSnapshots(logger *slog.Logger, outputDir, runUUID string, cfg *models.Config, outcome *Outcome) {
	var sent, failed []string
	for _, d := range outcome.Deliveries {
		if d.Delivered {
			sent = append(sent, d.Recipient)
		} else {
			failed = append(failed, d.Recipient)
		}
	}

	errs := append([]string{}, outcome.Result.Diagnostics...)
	st := &status.Status{
		RunID:          runUUID,
		Timestamp:      outcome.Now.Format("2006-01-02 15:04:05"),
		Timezone:       cfg.Timezone,
		AllowedWindow:  outcome.Allowed,
		Counts:         outcome.Result.BucketCounts,
		Total:          outcome.Decision.Total,
		Threshold:      cfg.Threshold,
		AlertTriggered: outcome.Decision.Triggered,
		Message:        outcome.Decision.Message,
		Notification: status.Notification{
			RecipientsSent:   sent,
			RecipientsFailed: failed,
			Results:          outcome.Deliveries,
		},
		Scrape: status.Scrape{
			RowsSeen:          outcome.Result.RowsSeen,
			StudiesConsidered: outcome.Result.StudiesConsidered,
			Errors:            errs,
			BaseURL:           outcome.BaseURL,
		},
	}

	if err := status.WriteJSON(outputDir, st); err != nil {
		logger.Warn("failed to write status.json", "error", err)
	}
	if err := status.WriteCountsCSV(outputDir, outcome.Result.IncludedRows); err != nil {
		logger.Warn("failed to write last_counts.csv", "error", err)
	}
}

func recordRun(logger *slog.Logger, database *db.DB, runUUID string, cfg *models.Config, outcome *Outcome) {
	runID, err := database.InsertRun(db.Run{
		RunUUID:           runUUID,
		StartedAt:         outcome.Now,
		Timezone:          cfg.Timezone,
		BaseURL:           outcome.BaseURL,
		AllowedWindow:     outcome.Allowed,
		Bucket60:          outcome.Result.BucketCounts[models.Bucket60],
		Bucket90:          outcome.Result.BucketCounts[models.Bucket90],
		Bucket120:         outcome.Result.BucketCounts[models.Bucket120],
		Total:             outcome.Decision.Total,
		Threshold:         cfg.Threshold,
		AlertTriggered:    outcome.Decision.Triggered,
		RowsSeen:          outcome.Result.RowsSeen,
		StudiesConsidered: outcome.Result.StudiesConsidered,
		Error:             outcome.StructuralErr,
	}, outcome.Result.IncludedRows)
	if err != nil {
		logger.Warn("failed to record run", "error", err)
		return
	}
	if err := database.InsertDeliveries(runID, outcome.Deliveries); err != nil {
		logger.Warn("failed to record deliveries", "error", err)
	}
}

// HistoryAction is the `history` command: print recent runs.
func HistoryAction(c *cli.Context) error {
	database, err := db.Open(c.String("output-dir"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to open database: %v", err), 2)
	}
	defer database.Close()

	runs, err := database.RecentRuns(c.Int("limit"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to query runs: %v", err), 2)
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	fmt.Printf("%-20s  %-5s %-5s %-5s %-6s %-6s %s\n", "started", "60m", "90m", "120m", "total", "alert", "error")
	for _, r := range runs {
		fmt.Printf("%-20s  %-5d %-5d %-5d %-6d %-6v %s\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Bucket60, r.Bucket90, r.Bucket120,
			r.Total, r.AlertTriggered, truncate(r.Error, 40))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
