package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"teacher_hours_dashboard/internal/domain/lesson"
)

// Column headers as they appear in the source spreadsheet.
const (
	colDate    = "DATA LEZIONE"
	colStart   = "ORA_INIZIO"
	colEnd     = "ORA_FINE"
	colHours   = "TOTALE_ORE"
	colSite    = "SEDE"
	colTeacher = "Codice Fiscale"
	colCourse  = "Materia" // optional
)

var requiredColumns = []string{colDate, colHours, colStart, colEnd, colSite, colTeacher}

// ErrMissingColumns means the worksheet header lacks required columns. This is
// an input-shape failure: no partial report is produced from such a sheet.
var ErrMissingColumns = errors.New("worksheet is missing required columns")

// RowsToRecords maps a raw value grid (first row = header) to lesson records.
func RowsToRecords(values [][]interface{}) ([]lesson.Record, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: worksheet is empty", ErrMissingColumns)
	}

	index := make(map[string]int, len(values[0]))
	for i, cell := range values[0] {
		index[strings.TrimSpace(cellString(cell))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	// Materia is optional; -1 reads as an empty cell.
	courseIdx, ok := index[colCourse]
	if !ok {
		courseIdx = -1
	}

	rows := make([]lesson.RawRow, 0, len(values)-1)
	for i, row := range values[1:] {
		rows = append(rows, lesson.RawRow{
			Row:     i + 2, // 1-based, after the header row
			Date:    cellAt(row, index[colDate]),
			Start:   cellAt(row, index[colStart]),
			End:     cellAt(row, index[colEnd]),
			Hours:   cellAt(row, index[colHours]),
			Site:    cellAt(row, index[colSite]),
			Teacher: cellAt(row, index[colTeacher]),
			Course:  cellAt(row, courseIdx),
		})
	}
	return lesson.ParseRows(rows), nil
}

// cellAt fetches a cell by column index; short rows read as empty cells.
func cellAt(row []interface{}, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}

func cellString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
