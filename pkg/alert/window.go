// Package alert holds the pure decision logic: the allowed-window gate and
// the threshold check. Nothing here performs I/O.
package alert

import (
	"fmt"
	"time"

	"worklistmon/models"
)

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// WindowAllowed reports whether the local time falls inside any configured
// range for its weekday. Range bounds are inclusive; the end minute runs to
// :59 seconds so "23:59" covers the rest of the day.
func WindowAllowed(windows map[string][]models.WindowRange, now time.Time) (bool, error) {
	ranges, ok := windows[weekdayKeys[now.Weekday()]]
	if !ok {
		return false, nil
	}

	minuteOfDay := now.Hour()*60 + now.Minute()
	for _, r := range ranges {
		start, err := parseHHMM(r.Start)
		if err != nil {
			return false, fmt.Errorf("invalid window start %q: %w", r.Start, err)
		}
		end, err := parseHHMM(r.End)
		if err != nil {
			return false, fmt.Errorf("invalid window end %q: %w", r.End, err)
		}
		if minuteOfDay >= start && minuteOfDay <= end {
			return true, nil
		}
	}
	return false, nil
}

func parseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
