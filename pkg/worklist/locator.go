// Package worklist implements the table extraction engine: locating the live
// worklist table in a document, inferring column roles from header text, and
// counting CT/MR study mentions into elapsed-time buckets.
package worklist

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"worklistmon/pkg/fetcher"
)

// ErrNoWorklistTable means no table passed exclusion and scoring.
var ErrNoWorklistTable = errors.New("worklist table not found")

// TableType classifies a candidate table.
type TableType int

const (
	TableUnknown TableType = iota
	TableWorklist
	TableCompleted
	TableExcluded
)

// CandidateTable is the selected table node plus its header-row guess.
type CandidateTable struct {
	Selection *goquery.Selection
	Headers   []string
	HeaderRow int
	Type      TableType
}

const (
	strongHeaderPhrase = "study requested"
	completedMarker    = "completed studies"
	reportOutMarker    = "report out time"

	// Only the first few rows are inspected as header candidates; real
	// deployments sometimes stack a title row above the header row.
	headerRowsChecked = 3
)

var (
	studyHeaderKeywords    = []string{"study", "description", "exam", "procedure"}
	dateTimeHeaderKeywords = []string{"date", "time"}
)

// LocateTable finds the table representing the live worklist. Tables bearing
// a completed-studies or report-out marker are excluded outright regardless
// of other signals. A header row matching the strong phrase wins immediately;
// otherwise the first table whose header candidates mention both a study
// keyword and a date/time keyword is kept as the fallback.
func LocateTable(doc *fetcher.Document) (*CandidateTable, error) {
	var fallback *CandidateTable

	var found *CandidateTable
	doc.Doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		text := strings.ToLower(table.Text())
		if strings.Contains(text, completedMarker) || strings.Contains(text, reportOutMarker) {
			return true
		}

		rows := table.Find("tr")
		limit := rows.Length()
		if limit > headerRowsChecked {
			limit = headerRowsChecked
		}
		for i := 0; i < limit; i++ {
			labels := rowLabels(rows.Eq(i))
			if len(labels) == 0 {
				continue
			}
			joined := strings.ToLower(strings.Join(labels, " "))

			if strings.Contains(joined, strongHeaderPhrase) {
				found = &CandidateTable{Selection: table, Headers: labels, HeaderRow: i, Type: TableWorklist}
				return false
			}
			if fallback == nil &&
				containsAny(joined, studyHeaderKeywords) &&
				containsAny(joined, dateTimeHeaderKeywords) {
				fallback = &CandidateTable{Selection: table, Headers: labels, HeaderRow: i, Type: TableWorklist}
			}
		}
		return true
	})

	if found != nil {
		return found, nil
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, ErrNoWorklistTable
}

// rowLabels returns the trimmed cell texts of a row. Header semantics are not
// reliably tagged, so both th and td cells count.
func rowLabels(row *goquery.Selection) []string {
	var labels []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		labels = append(labels, normalizeCell(cell.Text()))
	})
	// A row of entirely empty cells is a spacer, not a header candidate.
	for _, l := range labels {
		if l != "" {
			return labels
		}
	}
	return nil
}

func normalizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
