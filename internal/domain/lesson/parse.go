package lesson

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source sheets are filled in by hand, so dates arrive in whatever shape the
// teacher typed. Day-first layouts are tried before ISO.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2/1/06",
}

// ParseRows converts raw worksheet rows into records, marking every parse
// defect on the record instead of failing the batch.
func ParseRows(rows []RawRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, ParseRow(row))
	}
	return records
}

// ParseRow parses a single raw row. It never fails: unusable fields are
// recorded as Problems and the affected checks skip the record later.
func ParseRow(raw RawRow) Record {
	r := Record{
		Raw:    raw,
		Course: strings.TrimSpace(raw.Course),
		Site:   strings.TrimSpace(raw.Site),
	}

	r.Teacher = strings.ToUpper(strings.TrimSpace(raw.Teacher))
	if r.Teacher == "" {
		r.Problems = append(r.Problems, ProblemMissingTeacher)
	}

	if d, ok := parseDate(raw.Date); ok {
		r.Date = d
	} else {
		r.Problems = append(r.Problems, ProblemBadDate)
	}

	startMin, startOK := ParseClock(raw.Start)
	endMin, endOK := ParseClock(raw.End)
	if startOK {
		r.StartMin = startMin
	} else {
		r.Problems = append(r.Problems, ProblemBadStartTime)
	}
	if endOK {
		r.EndMin = endMin
	} else {
		r.Problems = append(r.Problems, ProblemBadEndTime)
	}
	if startOK && endOK && endMin < startMin {
		// Overnight spans are not supported: a backwards interval is a data
		// entry error, not a lesson past midnight.
		r.Problems = append(r.Problems, ProblemEndBeforeStart)
	}

	if h, ok := parseHours(raw.Hours); ok {
		r.DeclaredHours = h
	} else {
		r.Problems = append(r.Problems, ProblemBadTotalHours)
	}

	return r
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseClock accepts the clock formats found in the sheets: "HH:MM", "HH.MM",
// "HH:MM:SS", and spreadsheet fractional-day floats in [0, 2). The result is
// minutes since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	if s == "" {
		return 0, false
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}

	// A bare number is a fraction of a day (1.5 == 12:00 of the "next" day,
	// which folds back onto the 24h clock).
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ":", "."), 64); err == nil && f >= 0 && f < 2 {
		total := int(f*24*60 + 0.5)
		return (total % (24 * 60)), true
	}

	return 0, false
}

func parseHours(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	// Italian sheets write decimals with a comma.
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}
