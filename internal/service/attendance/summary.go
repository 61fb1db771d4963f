package attendance

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

type employeeTotals struct {
	summary          attendance.EmployeeSummary
	grossMinutes     int
	effectiveMinutes int
	overTimeMinutes  int
	lateMinutes      int
	shortfallMinutes int
	workedDays       int
}

// summarize folds stored records into one row per employee, ordered by employee number.
// Every count comes from the stored status; nothing is reclassified here.
func summarize(stored []attendance.StoredRecord) []attendance.EmployeeSummary {
	byEmployee := make(map[string]*employeeTotals)
	for _, rec := range stored {
		key := strings.ToUpper(strings.TrimSpace(rec.EmployeeNumber))
		t, ok := byEmployee[key]
		if !ok {
			t = &employeeTotals{summary: attendance.EmployeeSummary{
				EmployeeNumber: rec.EmployeeNumber,
				FullName:       rec.FullName,
				Department:     rec.Department,
				Tally:          make(map[attendance.Status]int),
			}}
			byEmployee[key] = t
		}

		t.summary.Days++
		t.summary.Tally[rec.Status]++
		if rec.Waiver {
			t.summary.WaiversUsed++
		}

		if punchtime.IsPunched(rec.InTime) && punchtime.IsPunched(rec.OutTime) {
			t.workedDays++
		}
		t.grossMinutes += punchtime.ToMinutes(rec.TotalHours)
		t.effectiveMinutes += punchtime.ToMinutes(rec.EffectiveHours)
		t.overTimeMinutes += punchtime.ToMinutes(rec.OverTime)
		t.lateMinutes += punchtime.ToMinutes(rec.LateBy)
		t.shortfallMinutes += punchtime.ToMinutes(rec.ShortfallEffective)
	}

	out := make([]attendance.EmployeeSummary, 0, len(byEmployee))
	for _, t := range byEmployee {
		s := t.summary
		s.GrossHours = minutesToHours(t.grossMinutes)
		s.EffectiveHours = minutesToHours(t.effectiveMinutes)
		s.OverTimeHours = minutesToHours(t.overTimeMinutes)
		s.LateHours = minutesToHours(t.lateMinutes)
		s.ShortfallHours = minutesToHours(t.shortfallMinutes)
		s.AverageHoursDay = decimal.Zero
		if t.workedDays > 0 {
			s.AverageHoursDay = decimal.NewFromInt(int64(t.effectiveMinutes)).
				Div(minutesPerHour).
				Div(decimal.NewFromInt(int64(t.workedDays))).
				Round(2)
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].EmployeeNumber < out[j].EmployeeNumber
	})
	return out
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2)
}

var exportHeader = []string{
	"Employee Number", "Full Name", "Job Title", "Department", "Location", "Cost Center",
	"Reporting To", "Legal Entity", "Date", "Shift", "In Time", "Out Time",
	"Status", "Deviation", "Waiver", "Late By", "Early By", "Total Hours", "Effective Hours",
	"Over Time", "Shortfall (Effective)", "Shortfall (Gross)",
}

func exportRow(rec attendance.ClassifiedRecord) []string {
	return []string{
		rec.EmployeeNumber, rec.FullName, rec.JobTitle, rec.Department, rec.Location, rec.CostCenter,
		rec.ReportingTo, rec.LegalEntity, rec.Date, rec.Shift, rec.InTime, rec.OutTime,
		string(rec.Status), rec.Deviation, strconv.FormatBool(rec.Waiver), rec.LateBy, rec.EarlyBy, rec.TotalHours, rec.EffectiveHours,
		rec.OverTime, rec.ShortfallEffective, rec.ShortfallGross,
	}
}
