package models

// Bucket classifies a study by elapsed wait time.
type Bucket string

const (
	BucketIgnored Bucket = ""
	Bucket60      Bucket = "60"  // 60–89 minutes
	Bucket90      Bucket = "90"  // 90–119 minutes
	Bucket120     Bucket = "120" // 120+ minutes
)

// BucketFor maps elapsed whole minutes to a bucket. Ages under 60 minutes
// are not yet actionable.
func BucketFor(ageMinutes int) Bucket {
	switch {
	case ageMinutes >= 120:
		return Bucket120
	case ageMinutes >= 90:
		return Bucket90
	case ageMinutes >= 60:
		return Bucket60
	}
	return BucketIgnored
}

// IncludedRow is one worklist row that contributed to the counts. Kept for
// the CSV snapshot and the run-history database; intentionally carries no
// patient identifiers.
type IncludedRow struct {
	Bucket     Bucket `json:"bucket"`
	AgeMinutes int    `json:"age_min"`
	Mentions   int    `json:"mentions"`
	StudyText  string `json:"study_cell"`
}

// ExtractionResult is the immutable outcome of one extraction pass.
type ExtractionResult struct {
	BucketCounts      map[Bucket]int `json:"counts"`
	RowsSeen          int            `json:"rows_seen"`
	StudiesConsidered int            `json:"ctmr_considered"`
	Diagnostics       []string       `json:"errors"`
	IncludedRows      []IncludedRow  `json:"included_rows"`
}

// NewExtractionResult returns a zeroed result with all buckets present so
// downstream consumers never see a missing key.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		BucketCounts: map[Bucket]int{Bucket60: 0, Bucket90: 0, Bucket120: 0},
	}
}

// Total sums all bucket counts.
func (r *ExtractionResult) Total() int {
	return r.BucketCounts[Bucket60] + r.BucketCounts[Bucket90] + r.BucketCounts[Bucket120]
}

// DeliveryResult is the outcome of one notification attempt.
type DeliveryResult struct {
	Recipient string `json:"recipient"`
	ChatID    int64  `json:"chat_id"`
	Delivered bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}
