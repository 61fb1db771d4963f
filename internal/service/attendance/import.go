package attendance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/spreadsheet"
)

type punchColumn int

const (
	colEmployeeNumber punchColumn = iota
	colDate
	colShift
	colInTime
	colOutTime
)

// headerAliases maps normalized header text to a punch column.
var headerAliases = map[string]punchColumn{
	"employee number": colEmployeeNumber,
	"employee no":     colEmployeeNumber,
	"emp no":          colEmployeeNumber,
	"emp number":      colEmployeeNumber,
	"date":            colDate,
	"attendance date": colDate,
	"shift":           colShift,
	"in time":         colInTime,
	"in":              colInTime,
	"out time":        colOutTime,
	"out":             colOutTime,
}

var requiredColumns = map[punchColumn]string{
	colEmployeeNumber: "employee number",
	colDate:           "date",
	colInTime:         "in time",
	colOutTime:        "out time",
}

type parsedPunches struct {
	punches []attendance.RawPunch
	errors  []attendance.ImportRowValidation
}

// months returns the distinct months of the parsed punches, sorted chronologically.
func (p parsedPunches) months() []string {
	seen := make(map[string]bool)
	months := make([]string, 0)
	for _, punch := range p.punches {
		m := punchtime.MonthYear(punch.Date)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return punchtime.SortKey("1-"+months[i]) < punchtime.SortKey("1-"+months[j])
	})
	return months
}

// parsePunchRows maps spreadsheet rows to punches. The first row is the header.
// Invalid data rows are reported and skipped; a missing required column fails the import.
func parsePunchRows(rows [][]string) (parsedPunches, error) {
	if len(rows) < 2 {
		return parsedPunches{}, attendance.ErrEmptySpreadsheet
	}

	index := make(map[punchColumn]int)
	for i, h := range rows[0] {
		col, ok := headerAliases[spreadsheet.NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}

	var missing []string
	for _, col := range []punchColumn{colEmployeeNumber, colDate, colInTime, colOutTime} {
		if _, ok := index[col]; !ok {
			missing = append(missing, requiredColumns[col])
		}
	}
	if len(missing) > 0 {
		return parsedPunches{}, fmt.Errorf("%w: %s", attendance.ErrMissingColumns, strings.Join(missing, ", "))
	}

	shiftIdx, ok := index[colShift]
	if !ok {
		shiftIdx = -1
	}

	var out parsedPunches
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		employeeNumber := spreadsheet.Cell(row, index[colEmployeeNumber])
		if employeeNumber == "" {
			out.errors = append(out.errors, attendance.ImportRowValidation{Row: rowNum, Message: "employee number is required"})
			continue
		}

		date, ok := normalizePunchDate(spreadsheet.Cell(row, index[colDate]))
		if !ok {
			out.errors = append(out.errors, attendance.ImportRowValidation{
				Row:     rowNum,
				Message: fmt.Sprintf("invalid date %q, expected DD-MMM-YYYY", spreadsheet.Cell(row, index[colDate])),
			})
			continue
		}

		out.punches = append(out.punches, attendance.RawPunch{
			EmployeeNumber: employeeNumber,
			Date:           date,
			Shift:          spreadsheet.Cell(row, shiftIdx),
			InTime:         normalizePunchTime(spreadsheet.Cell(row, index[colInTime])),
			OutTime:        normalizePunchTime(spreadsheet.Cell(row, index[colOutTime])),
		})
	}

	return out, nil
}

func normalizePunchDate(raw string) (string, bool) {
	if t, ok := punchtime.ParseDate(raw); ok {
		return punchtime.FormatDate(t), true
	}
	if t, ok := spreadsheet.SerialDate(raw); ok {
		return punchtime.FormatDate(t), true
	}
	return "", false
}

// normalizePunchTime converts Excel day fractions to "HH:MM" and leaves everything else as typed.
func normalizePunchTime(raw string) string {
	if raw == "" || strings.Contains(raw, ":") {
		return raw
	}
	if clock, ok := spreadsheet.SerialClock(raw); ok {
		return clock
	}
	return raw
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
