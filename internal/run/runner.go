// Package run wires the pipeline for one monitoring pass: session →
// navigator → table locator → extractor → alert decision → notification.
package run

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"worklistmon/models"
	"worklistmon/pkg/alert"
	"worklistmon/pkg/diag"
	"worklistmon/pkg/fetcher"
	"worklistmon/pkg/navigator"
	"worklistmon/pkg/notify"
	"worklistmon/pkg/worklist"
)

// Runner holds the collaborators for one run. A Runner is built, executed
// once, and discarded; nothing is shared across runs.
type Runner struct {
	Config   *models.Config
	Contacts []models.Contact
	Sink     diag.Sink
	Notifier notify.Notifier
	Logger   *slog.Logger
	DryRun   bool

	// Now overrides the clock in tests; zero means wall time.
	Now time.Time
}

// Outcome is everything one run produced. It always exists, even when the
// run failed structurally.
type Outcome struct {
	Result        *models.ExtractionResult
	Decision      alert.Decision
	Allowed       bool
	Deliveries    []models.DeliveryResult
	BaseURL       string
	Now           time.Time
	StructuralErr string
}

// Execute performs one monitoring pass. Structural failures (auth, fetch
// exhaustion) are folded into the outcome rather than returned: the run
// always produces a result object, and a failed run never triggers an alert.
func (r *Runner) Execute() (*Outcome, error) {
	cfg := r.Config
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}
	sink := r.Sink
	if sink == nil {
		sink = diag.NopSink{}
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	now := r.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	allowed, err := alert.WindowAllowed(cfg.Windows, now)
	if err != nil {
		return nil, fmt.Errorf("invalid window configuration: %w", err)
	}
	log.Info("run starting", "now", now.Format("2006-01-02 15:04:05"), "timezone", cfg.Timezone, "allowed_window", allowed)

	outcome := &Outcome{
		Result:  models.NewExtractionResult(),
		Allowed: allowed,
		Now:     now,
	}

	doc := r.acquire(log, sink, outcome)
	if doc != nil {
		r.extract(log, doc, now, loc, outcome)
	}

	outcome.Decision = alert.Decide(outcome.Result, cfg.Threshold, allowed, cfg.ForceAlert, r.Contacts)
	if outcome.StructuralErr != "" && outcome.Decision.Triggered {
		// A failed run must never fabricate an alert, forced or not.
		log.Warn("suppressing alert after structural failure", "error", outcome.StructuralErr)
		outcome.Decision.Triggered = false
	}

	log.Info("counts",
		"b60", outcome.Result.BucketCounts[models.Bucket60],
		"b90", outcome.Result.BucketCounts[models.Bucket90],
		"b120", outcome.Result.BucketCounts[models.Bucket120],
		"total", outcome.Decision.Total,
		"threshold", cfg.Threshold,
		"alert", outcome.Decision.Triggered)

	if outcome.Decision.Triggered && !r.DryRun && r.Notifier != nil && len(r.Contacts) > 0 {
		outcome.Deliveries = notify.FanOut(r.Notifier, outcome.Decision.Message, r.Contacts)
		for _, d := range outcome.Deliveries {
			if d.Delivered {
				log.Info("notified", "recipient", d.Recipient)
			} else {
				log.Error("notification failed", "recipient", d.Recipient, "error", d.Error)
			}
		}
	}

	return outcome, nil
}

// acquire reaches an authenticated worklist document, or records the failure
// and returns nil.
func (r *Runner) acquire(log *slog.Logger, sink diag.Sink, outcome *Outcome) *fetcher.Document {
	session, err := fetcher.NewSession()
	if err != nil {
		outcome.StructuralErr = err.Error()
		outcome.Result.Diagnostics = append(outcome.Result.Diagnostics, "no HTML fetched: "+err.Error())
		return nil
	}

	nav := navigator.New(session, sink, navigator.Options{
		BaseURLs:     r.Config.BaseURLs,
		EntryPath:    r.Config.EntryPath,
		WorklistPath: r.Config.Worklist,
		MaxDepth:     r.Config.CrawlMaxDepth,
		MaxPages:     r.Config.CrawlMaxPages,
	})

	doc, err := nav.Acquire(r.Config.Username, r.Config.Password)
	if err != nil {
		log.Error("failed to acquire worklist document", "error", err)
		outcome.StructuralErr = err.Error()
		outcome.Result.Diagnostics = append(outcome.Result.Diagnostics, "no HTML fetched: "+err.Error())
		return nil
	}

	outcome.BaseURL = doc.URL.Scheme + "://" + doc.URL.Host
	if err := sink.Record("last_page.html", doc.Raw); err != nil {
		log.Warn("failed to snapshot worklist page", "error", err)
	}
	return doc
}

// extract locates the worklist table and accumulates bucket counts. A
// missing table degrades to a zero-count result with a diagnostic.
func (r *Runner) extract(log *slog.Logger, doc *fetcher.Document, now time.Time, loc *time.Location, outcome *Outcome) {
	table, err := worklist.LocateTable(doc)
	if err != nil {
		if errors.Is(err, worklist.ErrNoWorklistTable) {
			log.Warn("no worklist table found", "url", doc.URL.String())
			outcome.Result.Diagnostics = append(outcome.Result.Diagnostics, err.Error())
			return
		}
		outcome.Result.Diagnostics = append(outcome.Result.Diagnostics, err.Error())
		return
	}

	roles := worklist.InferColumns(table.Headers)
	log.Info("columns inferred", "date", roles.Date, "time", roles.Time, "study", roles.Study, "modality", roles.Modality)

	outcome.Result = worklist.Extract(table, roles, now, loc)
	for _, d := range outcome.Result.Diagnostics {
		log.Warn("row discarded", "reason", d)
	}
}
