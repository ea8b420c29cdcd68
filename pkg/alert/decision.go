package alert

import (
	"fmt"
	"strings"

	"worklistmon/models"
)

// Decision is the outcome of combining counts with the threshold and window
// gates.
type Decision struct {
	Triggered bool
	Total     int
	Message   string
}

// ShouldAlert applies the alert rule: a forced run always alerts; otherwise
// the window must allow it and the backlog total must reach the threshold.
func ShouldAlert(total, threshold int, windowAllowed, force bool) bool {
	return force || (windowAllowed && total >= threshold)
}

// Decide evaluates the rule and builds the human-readable summary sent to
// recipients.
func Decide(result *models.ExtractionResult, threshold int, windowAllowed, force bool, contacts []models.Contact) Decision {
	total := result.Total()
	names := make([]string, 0, len(contacts))
	for _, c := range contacts {
		names = append(names, c.Name)
	}

	msg := fmt.Sprintf(
		"CT/MR backlog 60m=%d, 90m=%d, 120m=%d (total=%d, threshold=%d). Notifying: %s",
		result.BucketCounts[models.Bucket60],
		result.BucketCounts[models.Bucket90],
		result.BucketCounts[models.Bucket120],
		total, threshold,
		strings.Join(names, ", "),
	)

	return Decision{
		Triggered: ShouldAlert(total, threshold, windowAllowed, force),
		Total:     total,
		Message:   msg,
	}
}
