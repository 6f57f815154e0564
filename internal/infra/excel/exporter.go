package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"teacher_hours_dashboard/internal/domain/report"
)

// Sheet names match the report the dashboard users already know.
const (
	SheetMismatches = "Errori Ore"
	SheetDuplicates = "Duplicati"
	SheetOverlaps   = "Sovrapposizioni"
	SheetMalformed  = "Righe Scartate"
)

// BuildWorkbook renders a validation report as an xlsx workbook with one
// sheet per finding category.
func BuildWorkbook(rep *report.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetMismatches); err != nil {
		return nil, fmt.Errorf("failed to rename first sheet: %w", err)
	}
	for _, name := range []string{SheetDuplicates, SheetOverlaps, SheetMalformed} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	if err := writeMismatches(f, rep); err != nil {
		return nil, err
	}
	if err := writeDuplicates(f, rep); err != nil {
		return nil, err
	}
	if err := writeOverlaps(f, rep); err != nil {
		return nil, err
	}
	if err := writeMalformed(f, rep); err != nil {
		return nil, err
	}

	return f, nil
}

func writeMismatches(f *excelize.File, rep *report.Report) error {
	if err := setRow(f, SheetMismatches, 1,
		"DATA LEZIONE", "ORA_INIZIO", "ORA_FINE", "TOTALE_ORE", "ORE_CALCOLATE", "DIFFERENZA", "Codice Fiscale"); err != nil {
		return err
	}
	for i, m := range rep.HourMismatches {
		err := setRow(f, SheetMismatches, i+2,
			m.Record.DateKey(),
			m.Record.StartClock(),
			m.Record.EndClock(),
			m.DeclaredHours.InexactFloat64(),
			m.ComputedHours.InexactFloat64(),
			m.Difference.InexactFloat64(),
			m.Record.Teacher,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeDuplicates(f *excelize.File, rep *report.Report) error {
	if err := setRow(f, SheetDuplicates, 1,
		"GRUPPO", "DATA LEZIONE", "ORA_INIZIO", "ORA_FINE", "TOTALE_ORE", "SEDE", "Codice Fiscale", "Materia"); err != nil {
		return err
	}
	row := 2
	for g, group := range rep.DuplicateGroups {
		for _, rec := range group.Records {
			err := setRow(f, SheetDuplicates, row,
				g+1,
				rec.DateKey(),
				rec.StartClock(),
				rec.EndClock(),
				rec.Raw.Hours,
				rec.Site,
				rec.Teacher,
				rec.Course,
			)
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeOverlaps(f *excelize.File, rep *report.Report) error {
	if err := setRow(f, SheetOverlaps, 1,
		"DATA LEZIONE", "Codice Fiscale", "Ora inizio 1", "Ora fine 1", "Ora inizio 2", "Ora fine 2"); err != nil {
		return err
	}
	for i, o := range rep.Overlaps {
		err := setRow(f, SheetOverlaps, i+2,
			o.Date,
			o.Teacher,
			o.First.StartClock(),
			o.First.EndClock(),
			o.Second.StartClock(),
			o.Second.EndClock(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMalformed(f *excelize.File, rep *report.Report) error {
	if err := setRow(f, SheetMalformed, 1,
		"RIGA", "DATA LEZIONE", "ORA_INIZIO", "ORA_FINE", "TOTALE_ORE", "Codice Fiscale", "MOTIVI"); err != nil {
		return err
	}
	for i, m := range rep.Malformed {
		reasons := ""
		for j, reason := range m.Reasons {
			if j > 0 {
				reasons += ", "
			}
			reasons += string(reason)
		}
		err := setRow(f, SheetMalformed, i+2,
			m.Record.Raw.Row,
			m.Record.Raw.Date,
			m.Record.Raw.Start,
			m.Record.Raw.End,
			m.Record.Raw.Hours,
			m.Record.Raw.Teacher,
			reasons,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
