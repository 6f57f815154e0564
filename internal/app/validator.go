package app

import (
	"sort"

	"github.com/shopspring/decimal"

	"teacher_hours_dashboard/internal/domain/lesson"
	"teacher_hours_dashboard/internal/domain/report"
)

var sixty = decimal.NewFromInt(60)

// Validator runs the consistency checks over one snapshot of lesson records:
// declared totals vs. schedule duration, duplicate rows, and time overlaps.
// A Validator is stateless; Validate may be called concurrently.
type Validator struct {
	tolerance decimal.Decimal // max allowed |computed - declared|, in hours
}

// NewValidator builds a validator with the given absolute hour tolerance.
// A zero tolerance means any nonzero difference is a finding.
func NewValidator(tolerance decimal.Decimal) *Validator {
	return &Validator{tolerance: tolerance.Abs()}
}

// Validate produces the report for one ordered record set. Malformed records
// are listed separately and skipped by the checks that need the broken field;
// they never abort the pass. Identical input yields an identical report.
func (v *Validator) Validate(records []lesson.Record) *report.Report {
	rep := &report.Report{
		RecordCount:     len(records),
		HourMismatches:  []report.HourMismatch{},
		DuplicateGroups: []report.DuplicateGroup{},
		Overlaps:        []report.OverlapPair{},
		Malformed:       []report.MalformedRecord{},
	}

	for _, r := range records {
		if r.IsMalformed() {
			rep.Malformed = append(rep.Malformed, report.MalformedRecord{
				Record:  r,
				Reasons: r.Problems,
			})
		}
	}

	v.checkHours(records, rep)
	v.checkDuplicates(records, rep)
	v.checkOverlaps(records, rep)
	return rep
}

// checkHours compares declared totals against end-start for every record whose
// identity, times and declared total all parsed.
func (v *Validator) checkHours(records []lesson.Record, rep *report.Report) {
	for _, r := range records {
		if !r.IdentityValid() || !r.ScheduleValid() || !r.DeclaredValid() {
			continue
		}
		computed := decimal.NewFromInt(int64(r.EndMin - r.StartMin)).Div(sixty).Round(2)
		diff := computed.Sub(r.DeclaredHours)
		if diff.Abs().GreaterThan(v.tolerance) {
			rep.HourMismatches = append(rep.HourMismatches, report.HourMismatch{
				Record:        r,
				ComputedHours: computed,
				DeclaredHours: r.DeclaredHours,
				Difference:    diff,
			})
		}
	}
}

// checkDuplicates groups records by (teacher, date, start, end, course) and
// reports every group with more than one member, all copies included.
func (v *Validator) checkDuplicates(records []lesson.Record, rep *report.Report) {
	groups := make(map[report.DuplicateKey][]lesson.Record)
	var order []report.DuplicateKey

	for _, r := range records {
		if !r.IdentityValid() || !r.ScheduleValid() {
			continue
		}
		key := report.DuplicateKey{
			Teacher: r.Teacher,
			Date:    r.DateKey(),
			Start:   r.StartClock(),
			End:     r.EndClock(),
			Course:  r.Course,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	// Groups come out in order of their first occurrence in the input.
	for _, key := range order {
		if members := groups[key]; len(members) > 1 {
			rep.DuplicateGroups = append(rep.DuplicateGroups, report.DuplicateGroup{
				Key:     key,
				Records: members,
			})
		}
	}
}

type overlapGroupKey struct {
	teacher string
	date    string
}

type indexedRecord struct {
	rec lesson.Record
	pos int // original input position, final sort tie-break
}

// checkOverlaps finds, per teacher and day, every pair of records whose
// half-open intervals intersect. Records are sorted by start, end, then input
// position, and swept with an active-interval list so each intersecting pair
// is reported exactly once; touching endpoints (A.end == B.start) do not
// count as an overlap. Exact copies of a record are already covered by the
// duplicate check, so only the first record of each duplicate key enters the
// sweep.
func (v *Validator) checkOverlaps(records []lesson.Record, rep *report.Report) {
	groups := make(map[overlapGroupKey][]indexedRecord)
	var order []overlapGroupKey
	seen := make(map[report.DuplicateKey]bool)

	for i, r := range records {
		if !r.IdentityValid() || !r.ScheduleValid() {
			continue
		}
		dupKey := report.DuplicateKey{
			Teacher: r.Teacher,
			Date:    r.DateKey(),
			Start:   r.StartClock(),
			End:     r.EndClock(),
			Course:  r.Course,
		}
		if seen[dupKey] {
			continue
		}
		seen[dupKey] = true
		key := overlapGroupKey{teacher: r.Teacher, date: r.DateKey()}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], indexedRecord{rec: r, pos: i})
	}

	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(a, b int) bool {
			ra, rb := group[a], group[b]
			if ra.rec.StartMin != rb.rec.StartMin {
				return ra.rec.StartMin < rb.rec.StartMin
			}
			if ra.rec.EndMin != rb.rec.EndMin {
				return ra.rec.EndMin < rb.rec.EndMin
			}
			return ra.pos < rb.pos
		})

		var active []indexedRecord
		for _, cur := range group {
			// Keep only intervals still open when cur starts.
			kept := active[:0]
			for _, a := range active {
				if a.rec.EndMin > cur.rec.StartMin {
					kept = append(kept, a)
				}
			}
			active = kept

			for _, a := range active {
				rep.Overlaps = append(rep.Overlaps, report.OverlapPair{
					Teacher: key.teacher,
					Date:    key.date,
					First:   a.rec,
					Second:  cur.rec,
				})
			}
			active = append(active, cur)
		}
	}
}
