package worklist

import (
	"fmt"
	"math"
	"time"

	"github.com/PuerkitoBio/goquery"

	"worklistmon/models"
)

// Minimum data-row cell counts. Inferred-column mode tolerates narrower
// tables; legacy fixed-position mode needs the full 7-column layout before a
// row is worth looking at.
const (
	minCellsInferred = 5
	minCellsLegacy   = 7
)

// Extract walks the located table's data rows and accumulates bucket counts.
// Rows are processed top to bottom and cells left to right, so the result is
// exactly reproducible for a given document and now.
func Extract(table *CandidateTable, roles RoleMap, now time.Time, loc *time.Location) *models.ExtractionResult {
	result := models.NewExtractionResult()

	minCells := minCellsLegacy
	if roles.Study != Unresolved {
		minCells = minCellsInferred
	}

	table.Selection.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
		if rowIdx == table.HeaderRow || row.Find("th").Length() > 0 {
			return
		}

		cells := cellTexts(row)
		if len(cells) < minCells {
			return
		}
		result.RowsSeen++

		studyText := pickStudyText(cells, roles)
		mentions := CountMentions(studyText)
		if mentions == 0 {
			return
		}

		dateText, timeText := pickDateTime(cells, roles)
		ts, err := ParseTimestamp(dateText, timeText, loc)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, fmt.Sprintf("row %d: %v", rowIdx, err))
			return
		}

		age := int(math.Floor(now.Sub(ts).Seconds() / 60))
		bucket := models.BucketFor(age)
		if bucket == models.BucketIgnored {
			return
		}

		result.BucketCounts[bucket] += mentions
		result.StudiesConsidered += mentions
		result.IncludedRows = append(result.IncludedRows, models.IncludedRow{
			Bucket:     bucket,
			AgeMinutes: age,
			Mentions:   mentions,
			StudyText:  studyText,
		})
	})

	return result
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, normalizeCell(cell.Text()))
	})
	return cells
}

// pickStudyText uses the inferred study column when resolved; otherwise it
// falls back to the longest cell that mentions a modality code.
func pickStudyText(cells []string, roles RoleMap) string {
	if roles.Study != Unresolved && roles.Study < len(cells) {
		return cells[roles.Study]
	}
	best := ""
	for _, c := range cells {
		if MentionsModality(c) && len(c) > len(best) {
			best = c
		}
	}
	return best
}

// pickDateTime uses inferred columns when resolved; unresolved roles fall
// back to scanning every cell for a date or time token.
func pickDateTime(cells []string, roles RoleMap) (string, string) {
	var dateText, timeText string

	if roles.Date != Unresolved && roles.Date < len(cells) {
		dateText = cells[roles.Date]
	} else {
		for _, c := range cells {
			if tok := FindDateToken(c); tok != "" {
				dateText = tok
				break
			}
		}
	}

	if roles.Time != Unresolved && roles.Time < len(cells) {
		timeText = cells[roles.Time]
		// A combined "Date/Time" header resolves both roles to one column;
		// split the cell into its tokens so the layout parse can succeed.
		if roles.Time == roles.Date {
			if d, t := FindDateToken(timeText), FindTimeToken(timeText); d != "" && t != "" {
				return d, t
			}
		}
	} else {
		for _, c := range cells {
			if tok := FindTimeToken(c); tok != "" {
				timeText = tok
				break
			}
		}
	}
	return dateText, timeText
}
