package worklist

import (
	"errors"
	"testing"

	"worklistmon/pkg/fetcher"
)

func mustDoc(t *testing.T, html string) *fetcher.Document {
	t.Helper()
	doc, err := fetcher.NewDocumentFromString("https://example.test/worklist.aspx", html)
	if err != nil {
		t.Fatalf("NewDocumentFromString() error = %v", err)
	}
	return doc
}

func TestLocateTable_StrongHeaderWins(t *testing.T) {
	html := `<html><body>
		<table><tr><th>Foo</th><th>Bar</th></tr></table>
		<table><tr><th>Patient</th><th>Date</th><th>Time</th><th>Study Requested</th></tr>
			<tr><td>a</td><td>b</td><td>c</td><td>d</td></tr></table>
	</body></html>`

	table, err := LocateTable(mustDoc(t, html))
	if err != nil {
		t.Fatalf("LocateTable() error = %v", err)
	}
	if table.Type != TableWorklist {
		t.Errorf("Type = %v, want TableWorklist", table.Type)
	}
	if len(table.Headers) != 4 || table.Headers[3] != "Study Requested" {
		t.Errorf("Headers = %v, want 4 labels ending in Study Requested", table.Headers)
	}
}

func TestLocateTable_ExclusionOverridesScoring(t *testing.T) {
	// The completed-studies report carries strong study/date keywords but
	// must never be selected.
	html := `<html><body>
		<table>
			<tr><th>Study Requested</th><th>Date</th><th>Report Out Time</th></tr>
			<tr><td>CT HEAD</td><td>Sep 16, 2025</td><td>19:02:58</td></tr>
		</table>
	</body></html>`

	_, err := LocateTable(mustDoc(t, html))
	if !errors.Is(err, ErrNoWorklistTable) {
		t.Fatalf("LocateTable() error = %v, want ErrNoWorklistTable", err)
	}
}

func TestLocateTable_CompletedStudiesExcluded(t *testing.T) {
	html := `<html><body>
		<table><tr><td>Completed Studies</td></tr>
			<tr><th>Study</th><th>Date</th><th>Time</th></tr></table>
		<table><tr><th>Study Description</th><th>Date</th><th>Time</th></tr></table>
	</body></html>`

	table, err := LocateTable(mustDoc(t, html))
	if err != nil {
		t.Fatalf("LocateTable() error = %v", err)
	}
	if table.Headers[0] != "Study Description" {
		t.Errorf("selected table headers = %v, want the non-completed table", table.Headers)
	}
}

func TestLocateTable_WeakFallback(t *testing.T) {
	// No strong phrase anywhere: a header mentioning both a study keyword
	// and a date/time keyword qualifies.
	html := `<html><body>
		<table><tr><td>Navigation</td><td>Links</td></tr></table>
		<table><tr><td>Patient</td><td>Exam</td><td>Date</td><td>Time</td></tr>
			<tr><td>a</td><td>b</td><td>c</td><td>d</td></tr></table>
	</body></html>`

	table, err := LocateTable(mustDoc(t, html))
	if err != nil {
		t.Fatalf("LocateTable() error = %v", err)
	}
	if len(table.Headers) != 4 || table.Headers[1] != "Exam" {
		t.Errorf("Headers = %v, want weak-fallback table", table.Headers)
	}
}

func TestLocateTable_HeaderBeyondThirdRowIgnored(t *testing.T) {
	html := `<html><body><table>
		<tr><td>x</td></tr>
		<tr><td>x</td></tr>
		<tr><td>x</td></tr>
		<tr><td>Study Requested</td><td>Date</td><td>Time</td></tr>
	</table></body></html>`

	_, err := LocateTable(mustDoc(t, html))
	if !errors.Is(err, ErrNoWorklistTable) {
		t.Fatalf("LocateTable() error = %v, want ErrNoWorklistTable (header past row 3)", err)
	}
}

func TestLocateTable_NoTables(t *testing.T) {
	_, err := LocateTable(mustDoc(t, "<html><body><p>nothing here</p></body></html>"))
	if !errors.Is(err, ErrNoWorklistTable) {
		t.Fatalf("LocateTable() error = %v, want ErrNoWorklistTable", err)
	}
}
