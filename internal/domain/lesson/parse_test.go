package lesson

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseClockFormats(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 540, true},
		{"9:00", 540, true},
		{"09.30", 570, true},
		{"14:45:00", 885, true},
		{" 16:15 ", 975, true},
		{"0:05", 5, true},
		{"0.375", 540, true}, // spreadsheet fraction of a day: 09:00
		{"1.5", 65, true},    // dot reads as a separator first: 01:05
		{"", 0, false},
		{"25:00", 0, false},
		{"whenever", 0, false},
		{"10:75", 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseClock(tc.in)
		if ok != tc.ok {
			t.Fatalf("ParseClock(%q): expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseClock(%q): expected %d minutes, got %d", tc.in, tc.want, got)
		}
	}
}

func TestParseRowDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "2024-03-15"}, // day first
		{"5/3/2024", "2024-03-05"},
		{"15-03-2024", "2024-03-15"},
		{"2024-03-15", "2024-03-15"},
	}
	for _, tc := range cases {
		r := ParseRow(RawRow{Row: 2, Teacher: "AAA", Date: tc.in, Start: "09:00", End: "10:00", Hours: "1"})
		if r.IsMalformed() {
			t.Fatalf("date %q: unexpected problems %v", tc.in, r.Problems)
		}
		if got := r.DateKey(); got != tc.want {
			t.Fatalf("date %q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestParseRowNormalizesTeacher(t *testing.T) {
	r := ParseRow(RawRow{Row: 2, Teacher: "  rssmra80a01h501u ", Date: "01/02/2024", Start: "09:00", End: "10:00", Hours: "1"})
	if r.Teacher != "RSSMRA80A01H501U" {
		t.Fatalf("expected normalized fiscal code, got %q", r.Teacher)
	}
}

func TestParseRowDeclaredHours(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.5", "1.5", true},
		{"2,5", "2.5", true}, // Italian decimal comma
		{"2", "2", true},
		{"1.499", "1.5", true}, // rounded to 2 dp
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		r := ParseRow(RawRow{Row: 2, Teacher: "AAA", Date: "01/02/2024", Start: "09:00", End: "10:30", Hours: tc.in})
		if got := r.DeclaredValid(); got != tc.ok {
			t.Fatalf("hours %q: expected DeclaredValid=%v, got %v", tc.in, tc.ok, got)
		}
		if tc.ok && !r.DeclaredHours.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("hours %q: expected %s, got %s", tc.in, tc.want, r.DeclaredHours)
		}
	}
}

func TestParseRowCollectsEveryProblem(t *testing.T) {
	r := ParseRow(RawRow{Row: 7})

	for _, want := range []Problem{ProblemMissingTeacher, ProblemBadDate, ProblemBadStartTime, ProblemBadEndTime, ProblemBadTotalHours} {
		if !r.HasProblem(want) {
			t.Fatalf("expected problem %s on empty row, got %v", want, r.Problems)
		}
	}
	if r.HasProblem(ProblemEndBeforeStart) {
		t.Fatalf("END_BEFORE_START requires parsable times, got %v", r.Problems)
	}
}

func TestParseRowEndBeforeStart(t *testing.T) {
	r := ParseRow(RawRow{Row: 2, Teacher: "AAA", Date: "01/02/2024", Start: "18:00", End: "09:00", Hours: "1"})
	if !r.HasProblem(ProblemEndBeforeStart) {
		t.Fatalf("expected END_BEFORE_START, got %v", r.Problems)
	}
	if r.ScheduleValid() {
		t.Fatal("a backwards interval must not be schedule-valid")
	}
	if !r.IdentityValid() || !r.DeclaredValid() {
		t.Fatalf("only the interval should be marked, got %v", r.Problems)
	}
}
