package worklist

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// timestampLayouts is the ordered list of accepted date+time formats: the
// vendor's month-name format first, then slash-delimited, then ISO-like,
// each with and without seconds. First successful parse wins.
var timestampLayouts = []string{
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Row-local fallback token patterns for documents whose date/time columns
// could not be inferred.
var (
	dateTokenRe = regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},\s*\d{4}`)
	timeTokenRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)
)

// ParseTimestamp interprets a date string and a time string in the given
// location, trying the explicit layouts before handing off to dateparse as a
// last resort.
func ParseTimestamp(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	combined := strings.TrimSpace(strings.TrimSpace(dateStr) + " " + strings.TrimSpace(timeStr))
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, combined, loc); err == nil {
			return t, nil
		}
	}
	if t, err := dateparse.ParseIn(combined, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", combined)
}

// FindDateToken returns the first month-name date token in a cell, or "".
func FindDateToken(text string) string {
	return dateTokenRe.FindString(text)
}

// FindTimeToken returns the first HH:MM[:SS] token in a cell, or "".
func FindTimeToken(text string) string {
	return timeTokenRe.FindString(text)
}
