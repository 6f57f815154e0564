package sheets

import (
	"errors"
	"strings"
	"testing"
)

func grid(rows ...[]interface{}) [][]interface{} {
	return rows
}

func header() []interface{} {
	return []interface{}{"DATA LEZIONE", "ORA_INIZIO", "ORA_FINE", "TOTALE_ORE", "SEDE", "Codice Fiscale", "Materia"}
}

func TestRowsToRecords(t *testing.T) {
	values := grid(
		header(),
		[]interface{}{"01/02/2024", "09:00", "10:00", "1", "Milano", "rssmra80a01h501u", "Fotografia"},
		[]interface{}{"01/02/2024", "09:00"}, // short row: remaining cells empty
	)

	records, err := RowsToRecords(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Raw.Row != 2 {
		t.Fatalf("expected first data row numbered 2, got %d", first.Raw.Row)
	}
	if first.Teacher != "RSSMRA80A01H501U" {
		t.Fatalf("expected normalized teacher, got %q", first.Teacher)
	}
	if first.Course != "Fotografia" || first.Site != "Milano" {
		t.Fatalf("unexpected course/site: %q / %q", first.Course, first.Site)
	}
	if first.IsMalformed() {
		t.Fatalf("expected clean record, got problems %v", first.Problems)
	}

	second := records[1]
	if !second.IsMalformed() {
		t.Fatal("short row should be malformed")
	}
}

func TestRowsToRecordsNumericCells(t *testing.T) {
	// The Sheets API can hand numbers back as float64.
	values := grid(
		header(),
		[]interface{}{"01/02/2024", float64(0.375), float64(0.4375), float64(1.5), "Milano", "AAA", ""},
	)

	records, err := RowsToRecords(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := records[0]
	if !r.ScheduleValid() {
		t.Fatalf("fractional-day cells should parse, got %v", r.Problems)
	}
	if r.StartClock() != "09:00" || r.EndClock() != "10:30" {
		t.Fatalf("expected 09:00-10:30, got %s-%s", r.StartClock(), r.EndClock())
	}
	if !r.DeclaredValid() {
		t.Fatalf("numeric hours cell should parse, got %v", r.Problems)
	}
}

func TestRowsToRecordsMissingColumns(t *testing.T) {
	values := grid(
		[]interface{}{"DATA LEZIONE", "ORA_INIZIO", "SEDE"},
		[]interface{}{"01/02/2024", "09:00", "Milano"},
	)

	_, err := RowsToRecords(values)
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns, got %v", err)
	}
	for _, col := range []string{"ORA_FINE", "TOTALE_ORE", "Codice Fiscale"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error should name missing column %q: %v", col, err)
		}
	}
}

func TestRowsToRecordsEmptyGrid(t *testing.T) {
	if _, err := RowsToRecords(nil); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("expected ErrMissingColumns for empty grid, got %v", err)
	}
}

func TestRowsToRecordsHeaderOnly(t *testing.T) {
	records, err := RowsToRecords(grid(header()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
