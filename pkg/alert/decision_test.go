package alert

import (
	"strings"
	"testing"

	"worklistmon/models"
)

func TestShouldAlert(t *testing.T) {
	cases := []struct {
		name          string
		total         int
		threshold     int
		windowAllowed bool
		force         bool
		want          bool
	}{
		{"over threshold inside window", 25, 20, true, false, true},
		{"over threshold outside window", 25, 20, false, false, false},
		{"forced outside window", 0, 20, false, true, true},
		{"under threshold inside window", 19, 20, true, false, false},
		{"exactly at threshold", 20, 20, true, false, true},
		{"zero backlog", 0, 20, true, false, false},
	}
	for _, tc := range cases {
		if got := ShouldAlert(tc.total, tc.threshold, tc.windowAllowed, tc.force); got != tc.want {
			t.Errorf("%s: ShouldAlert(%d, %d, %v, %v) = %v, want %v",
				tc.name, tc.total, tc.threshold, tc.windowAllowed, tc.force, got, tc.want)
		}
	}
}

func TestDecide_Message(t *testing.T) {
	result := models.NewExtractionResult()
	result.BucketCounts[models.Bucket60] = 5
	result.BucketCounts[models.Bucket90] = 7
	result.BucketCounts[models.Bucket120] = 13

	contacts := []models.Contact{{Name: "Reed"}, {Name: "Bargo"}, {Name: "Croce"}}
	d := Decide(result, 20, true, false, contacts)

	if !d.Triggered {
		t.Error("Decide() Triggered = false, want true (25 >= 20 in window)")
	}
	if d.Total != 25 {
		t.Errorf("Total = %d, want 25", d.Total)
	}
	for _, want := range []string{"60m=5", "90m=7", "120m=13", "total=25", "Reed, Bargo, Croce"} {
		if !strings.Contains(d.Message, want) {
			t.Errorf("Message %q missing %q", d.Message, want)
		}
	}
}
