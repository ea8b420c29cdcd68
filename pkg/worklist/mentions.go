package worklist

import (
	"regexp"
	"strings"
)

// Study cells routinely pack several orders into one cell ("CT HEAD; CT
// CHEST", "CT AND MRI BRAIN"). Each recognized modality code counts as one
// backlog unit. Matching is whole-word so CTA angiograms and MRN numbers do
// not count.
var (
	segmentSeparatorRe = regexp.MustCompile(`[;,/]|\bAND\b`)
	ctMentionRe        = regexp.MustCompile(`\bCT\b`)
	mrMentionRe        = regexp.MustCompile(`\bMRI?\b`)
)

// CountMentions returns the number of CT and MR/MRI whole-word mentions in a
// cell's text, summed across its separator-delimited segments.
func CountMentions(text string) int {
	upper := strings.ToUpper(text)
	total := 0
	for _, segment := range segmentSeparatorRe.Split(upper, -1) {
		total += len(ctMentionRe.FindAllString(segment, -1))
		total += len(mrMentionRe.FindAllString(segment, -1))
	}
	return total
}

// MentionsModality reports whether a cell's text holds at least one CT or
// MR/MRI mention; used by the fallback study-cell picker.
func MentionsModality(text string) bool {
	upper := strings.ToUpper(text)
	return ctMentionRe.MatchString(upper) || mrMentionRe.MatchString(upper)
}
