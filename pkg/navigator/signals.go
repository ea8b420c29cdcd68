package navigator

import (
	"strings"

	"worklistmon/pkg/fetcher"
)

// Header-text evidence tiers for classifying a page as the live worklist.
// The strong phrase is the one header the vendor has never renamed; the
// exclusion markers identify the completed-studies report, which shares most
// other keywords with the worklist.
const (
	strongSignal = "study requested"

	exclCompleted = "completed studies"
	exclReportOut = "report out time"
)

// weakSignals are header keywords counted when the strong phrase is absent.
// At least weakSignalMin of them must appear.
var weakSignals = []string{"study", "date", "time", "modality", "description", "exam"}

const weakSignalMin = 3

// IsWorklistLike reports whether a fetched page appears to be the live
// worklist rather than a login page or the completed-studies report.
func IsWorklistLike(doc *fetcher.Document) bool {
	text := strings.ToLower(doc.Text())

	if strings.Contains(text, exclCompleted) || strings.Contains(text, exclReportOut) {
		return false
	}
	if strings.Contains(text, strongSignal) {
		return true
	}

	hits := 0
	for _, kw := range weakSignals {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits >= weakSignalMin
}

// HasActiveSession reports whether a page indicates the session is already
// authenticated.
func HasActiveSession(doc *fetcher.Document) bool {
	text := strings.ToLower(doc.Text())
	return strings.Contains(text, "logout") || strings.Contains(text, "logged in")
}
