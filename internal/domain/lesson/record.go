package lesson

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Problem marks a single parse defect on a source row.
type Problem string

const (
	ProblemMissingTeacher Problem = "MISSING_TEACHER"
	ProblemBadDate        Problem = "UNPARSABLE_DATE"
	ProblemBadStartTime   Problem = "UNPARSABLE_START_TIME"
	ProblemBadEndTime     Problem = "UNPARSABLE_END_TIME"
	ProblemEndBeforeStart Problem = "END_BEFORE_START"
	ProblemBadTotalHours  Problem = "UNPARSABLE_TOTAL_HOURS"
)

// RawRow holds the cell values of one worksheet row exactly as read from the source.
type RawRow struct {
	Row     int    `json:"row"` // 1-based worksheet row number, header included
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Hours   string `json:"hours"`
	Teacher string `json:"teacher"`
	Course  string `json:"course"`
	Site    string `json:"site"`
}

// Record is one parsed lesson entry. It is read-only for the duration of a
// validation pass; all checks operate on the parsed fields, while Raw keeps
// the original cell values for reporting.
type Record struct {
	Raw RawRow `json:"raw"`

	Teacher string `json:"teacher"` // normalized fiscal code (trimmed, upper-cased)
	Course  string `json:"course"`
	Site    string `json:"site"`

	Date     time.Time `json:"date"` // midnight UTC; zero when unparsable
	StartMin int       `json:"start_min"`
	EndMin   int       `json:"end_min"`

	DeclaredHours decimal.Decimal `json:"declared_hours"`

	Problems []Problem `json:"problems,omitempty"`
}

// Source supplies the full record set for one validation pass.
type Source interface {
	Fetch(ctx context.Context) ([]Record, error)
}

func (r Record) HasProblem(p Problem) bool {
	for _, q := range r.Problems {
		if q == p {
			return true
		}
	}
	return false
}

// IsMalformed reports whether the record carries any parse defect.
func (r Record) IsMalformed() bool {
	return len(r.Problems) > 0
}

// IdentityValid reports whether teacher and date parsed. Records failing this
// are surfaced only in the malformed list and take part in no check.
func (r Record) IdentityValid() bool {
	return !r.HasProblem(ProblemMissingTeacher) && !r.HasProblem(ProblemBadDate)
}

// ScheduleValid reports whether both clock times parsed and the interval does
// not run backwards.
func (r Record) ScheduleValid() bool {
	return !r.HasProblem(ProblemBadStartTime) &&
		!r.HasProblem(ProblemBadEndTime) &&
		!r.HasProblem(ProblemEndBeforeStart)
}

// DeclaredValid reports whether the declared total hours parsed.
func (r Record) DeclaredValid() bool {
	return !r.HasProblem(ProblemBadTotalHours)
}

// Start returns the date-combined start instant. Only meaningful when both
// IdentityValid and ScheduleValid hold.
func (r Record) Start() time.Time {
	return r.Date.Add(time.Duration(r.StartMin) * time.Minute)
}

// End returns the date-combined end instant.
func (r Record) End() time.Time {
	return r.Date.Add(time.Duration(r.EndMin) * time.Minute)
}

// DateKey returns the record's date as YYYY-MM-DD, or "" when unparsable.
func (r Record) DateKey() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("2006-01-02")
}

// StartClock and EndClock render the parsed clock times as HH:MM.
func (r Record) StartClock() string { return clockString(r.StartMin) }
func (r Record) EndClock() string   { return clockString(r.EndMin) }

func clockString(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
