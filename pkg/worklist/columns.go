package worklist

import "strings"

// Unresolved marks a role with no matching header column.
const Unresolved = -1

// RoleMap maps semantic roles to column indices. An unresolved role triggers
// row-local fallback heuristics during extraction instead of aborting.
type RoleMap struct {
	Date     int
	Time     int
	Study    int
	Modality int
}

// Role keyword synonyms, matched case-insensitively as substrings. Roles are
// assigned independently: one label may satisfy several roles, mirroring
// headers like "Date/Time".
var (
	dateColumnKeywords     = []string{"date"}
	timeColumnKeywords     = []string{"time"}
	studyColumnKeywords    = []string{"study", "description", "exam", "procedure"}
	modalityColumnKeywords = []string{"modality"}
)

// InferColumns scans header labels left to right and assigns each role the
// first label containing one of its keywords.
func InferColumns(headers []string) RoleMap {
	return RoleMap{
		Date:     firstMatch(headers, dateColumnKeywords),
		Time:     firstMatch(headers, timeColumnKeywords),
		Study:    firstMatch(headers, studyColumnKeywords),
		Modality: firstMatch(headers, modalityColumnKeywords),
	}
}

func firstMatch(headers []string, keywords []string) int {
	for i, h := range headers {
		lower := strings.ToLower(h)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return i
			}
		}
	}
	return Unresolved
}
