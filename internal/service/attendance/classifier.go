package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
)

// Classifier assigns one attendance status to every punch record. It keeps no state
// between calls; the waiver counter lives only for the duration of one Run.
type Classifier struct {
	defaultShift string
}

func NewClassifier(defaultShift string) *Classifier {
	if strings.TrimSpace(defaultShift) == "" {
		defaultShift = attendance.DefaultShiftToken
	}
	return &Classifier{defaultShift: defaultShift}
}

// Classify sorts punches by (date, employee number) and classifies them in that order
// with a fresh waiver counter. The result has one record per punch, in sorted order.
func (c *Classifier) Classify(ref attendance.Reference, punches []attendance.RawPunch) []attendance.ClassifiedRecord {
	return c.Run(ref, punches, NewWaiverCounter(nil))
}

// Run is Classify with a caller-owned waiver counter. A counter must not be shared
// between unrelated passes.
func (c *Classifier) Run(ref attendance.Reference, punches []attendance.RawPunch, waivers *WaiverCounter) []attendance.ClassifiedRecord {
	idx := NewReferenceIndex(ref)
	sorted := SortPunches(punches)

	records := make([]attendance.ClassifiedRecord, 0, len(sorted))
	for _, p := range sorted {
		records = append(records, c.classify(idx, p, waivers))
	}
	return records
}

func (c *Classifier) classify(idx *ReferenceIndex, p attendance.RawPunch, waivers *WaiverCounter) attendance.ClassifiedRecord {
	rec := attendance.ClassifiedRecord{RawPunch: p, Deviation: attendance.NoDeviation}

	in := punchtime.Parse(p.InTime)
	out := punchtime.Parse(p.OutTime)

	shiftToken := strings.TrimSpace(p.Shift)
	if shiftToken == "" {
		shiftToken = c.defaultShift
	}
	shift, shiftFound := idx.Shift(shiftToken)

	applyTimeAccounting(&rec, in, out, shift)

	emp, found := idx.Employee(p.EmployeeNumber)
	if found {
		copyEmployee(&rec, emp)
	}

	holiday, isHoliday := idx.Holiday(p.Date)
	isWeeklyOff := idx.IsWeeklyOff(p.Date)

	switch {
	case !found:
		rec.Status, rec.Deviation = attendance.StatusIDError, "ID Not Found in Master"

	case !isActive(emp):
		rec.Status, rec.Deviation = attendance.StatusIDError, "Staff Inactive/Terminated"

	case !in.Valid && !out.Valid:
		switch {
		case isHoliday:
			rec.Status, rec.Deviation = attendance.StatusHoliday, holiday.Label
		case isWeeklyOff:
			rec.Status, rec.Deviation = attendance.StatusWeeklyOff, "Standard Weekly Off"
		default:
			rec.Status, rec.Deviation = attendance.StatusAbsent, "No Punch Records"
		}

	case in.Valid && !out.Valid:
		rec.Status, rec.Deviation = attendance.StatusAudit, "Missing Out Punch"

	case !in.Valid && out.Valid:
		rec.Status, rec.Deviation = attendance.StatusAudit, "Missing In Punch"

	case isHoliday:
		rec.Status, rec.Deviation = attendance.StatusWorkedOff, "Worked on Holiday: "+holiday.Label

	case isWeeklyOff:
		rec.Status, rec.Deviation = attendance.StatusWorkedOff, "Worked on Weekly Off"

	case !shiftFound:
		rec.Status, rec.Deviation = attendance.StatusAudit, "Undefined Shift: "+shiftToken

	default:
		c.evaluateShift(&rec, emp, shift, in, out, waivers)
	}

	if rec.Deviation == "" {
		rec.Deviation = attendance.NoDeviation
	}
	return rec
}

// evaluateShift compares a fully punched workday against its shift.
func (c *Classifier) evaluateShift(
	rec *attendance.ClassifiedRecord,
	emp *attendance.Employee,
	shift *attendance.ShiftDefinition,
	in, out punchtime.Punch,
	waivers *WaiverCounter,
) {
	start := punchtime.ToMinutes(shift.StartTime)
	end := punchtime.ToMinutes(shift.EndTime)

	isLateIn := in.Minutes > start
	isEarlyOut := out.Minutes < end
	isVeryEarlyIn := in.Minutes < start-shift.EarlyInThreshold

	switch {
	case isVeryEarlyIn:
		rec.Status = attendance.StatusAudit
		rec.Deviation = fmt.Sprintf("Very Early In (%dm)", start-in.Minutes)

	case isLateIn || isEarlyOut:
		var reason string
		switch {
		case isLateIn && isEarlyOut:
			reason = "Double Violation (Late + Early)"
		case isLateIn:
			reason = fmt.Sprintf("Late In (%dm)", in.Minutes-start)
		default:
			reason = fmt.Sprintf("Early Out (%dm)", end-out.Minutes)
		}

		// Only a single violation by someone without a standing deviation allowance
		// draws on the monthly waiver.
		if isLateIn != isEarlyOut && !emp.ShiftDeviationAllowed {
			limit := shift.LateCap()
			occasion, eligible := waivers.Claim(WaiverMonthKey(emp.EmployeeNumber, rec.Date), limit)
			if eligible {
				reason = fmt.Sprintf("Audit Waiver Eligible (Occasion %d/%d) - %s", occasion, limit, reason)
				rec.Waiver = true
			}
		}

		rec.Status = attendance.StatusAudit
		rec.Deviation = reason

	default:
		rec.Status = attendance.StatusClean
		rec.Deviation = "On Time"
	}
}

func isActive(emp *attendance.Employee) bool {
	return strings.EqualFold(strings.TrimSpace(emp.ActiveStatus), attendance.ActiveStatusActive)
}

func copyEmployee(rec *attendance.ClassifiedRecord, emp *attendance.Employee) {
	rec.FullName = emp.FullName
	rec.JobTitle = emp.JobTitle
	rec.Department = emp.Department
	rec.Location = emp.Location
	rec.CostCenter = emp.CostCenter
	rec.ReportingTo = emp.ReportingTo
	rec.LegalEntity = emp.LegalEntity
}

// Tally counts records per status.
func Tally(records []attendance.ClassifiedRecord) map[attendance.Status]int {
	tally := make(map[attendance.Status]int, len(attendance.StatusValues))
	for _, r := range records {
		tally[r.Status]++
	}
	return tally
}
