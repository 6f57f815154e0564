package report

import (
	"time"

	"github.com/shopspring/decimal"

	"teacher_hours_dashboard/internal/domain/lesson"
)

// HourMismatch is a record whose declared total disagrees with the schedule
// duration by more than the configured tolerance.
type HourMismatch struct {
	Record        lesson.Record   `json:"record"`
	ComputedHours decimal.Decimal `json:"computed_hours"`
	DeclaredHours decimal.Decimal `json:"declared_hours"`
	Difference    decimal.Decimal `json:"difference"` // computed - declared, signed
}

// DuplicateKey identifies records considered copies of each other.
type DuplicateKey struct {
	Teacher string `json:"teacher"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Course  string `json:"course"`
}

// DuplicateGroup lists every record sharing one duplicate key, in input order.
type DuplicateGroup struct {
	Key     DuplicateKey    `json:"key"`
	Records []lesson.Record `json:"records"`
}

// OverlapPair is a single pair of same-teacher, same-day records whose time
// intervals intersect. Touching endpoints do not count.
type OverlapPair struct {
	Teacher string        `json:"teacher"`
	Date    string        `json:"date"`
	First   lesson.Record `json:"first"`
	Second  lesson.Record `json:"second"`
}

// MalformedRecord is a row excluded from one or more checks, with the reasons.
type MalformedRecord struct {
	Record  lesson.Record    `json:"record"`
	Reasons []lesson.Problem `json:"reasons"`
}

// Report is the outcome of one validation pass. It is a pure function of the
// input records: it references no clock and no state outside the pass, so the
// same input always yields the same report.
type Report struct {
	RecordCount     int               `json:"record_count"`
	HourMismatches  []HourMismatch    `json:"hour_mismatches"`
	DuplicateGroups []DuplicateGroup  `json:"duplicate_groups"`
	Overlaps        []OverlapPair     `json:"overlaps"`
	Malformed       []MalformedRecord `json:"malformed"`
}

// Counts summarizes a report for persistence and notifications.
type Counts struct {
	Records         int `json:"records"`
	HourMismatches  int `json:"hour_mismatches"`
	DuplicateGroups int `json:"duplicate_groups"`
	Overlaps        int `json:"overlaps"`
	Malformed       int `json:"malformed"`
}

func (r *Report) Counts() Counts {
	return Counts{
		Records:         r.RecordCount,
		HourMismatches:  len(r.HourMismatches),
		DuplicateGroups: len(r.DuplicateGroups),
		Overlaps:        len(r.Overlaps),
		Malformed:       len(r.Malformed),
	}
}

// HasFindings reports whether any check produced at least one finding.
func (r *Report) HasFindings() bool {
	return len(r.HourMismatches) > 0 || len(r.DuplicateGroups) > 0 ||
		len(r.Overlaps) > 0 || len(r.Malformed) > 0
}

// Snapshot wraps a report with the moment its input was fetched. Timestamps
// live here rather than on Report to keep Report deterministic.
type Snapshot struct {
	FetchedAt time.Time `json:"fetched_at"`
	Report    *Report   `json:"report"`
}
