package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
)

// ReferenceIndex holds case-insensitive lookups over one Reference snapshot.
type ReferenceIndex struct {
	shifts     map[string]*attendance.ShiftDefinition
	holidays   map[string]attendance.Holiday
	weeklyOffs map[time.Weekday]struct{}
	employees  map[string]*attendance.Employee
}

// NewReferenceIndex builds the lookups. Each shift is inserted under both its id and
// its label so either resolves to the same definition.
func NewReferenceIndex(ref attendance.Reference) *ReferenceIndex {
	idx := &ReferenceIndex{
		shifts:     make(map[string]*attendance.ShiftDefinition, len(ref.Shifts)*2),
		holidays:   make(map[string]attendance.Holiday, len(ref.Holidays)),
		weeklyOffs: make(map[time.Weekday]struct{}, len(ref.WeeklyOffs)),
		employees:  make(map[string]*attendance.Employee, len(ref.Employees)),
	}

	for i := range ref.Shifts {
		s := &ref.Shifts[i]
		for _, key := range []string{s.ID, s.Label} {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			idx.shifts[key] = s
		}
	}

	for _, h := range ref.Holidays {
		idx.holidays[punchtime.NormalizeDate(h.Date)] = h
	}

	for _, d := range ref.WeeklyOffs {
		idx.weeklyOffs[time.Weekday(d)] = struct{}{}
	}

	for i := range ref.Employees {
		e := &ref.Employees[i]
		idx.employees[strings.ToUpper(strings.TrimSpace(e.EmployeeNumber))] = e
	}

	return idx
}

func (idx *ReferenceIndex) Shift(token string) (*attendance.ShiftDefinition, bool) {
	s, ok := idx.shifts[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

func (idx *ReferenceIndex) Holiday(date string) (attendance.Holiday, bool) {
	h, ok := idx.holidays[punchtime.NormalizeDate(date)]
	return h, ok
}

// IsWeeklyOff reports whether date falls on a weekly-off weekday. Unparsable dates never do.
func (idx *ReferenceIndex) IsWeeklyOff(date string) bool {
	d, ok := punchtime.ParseDate(date)
	if !ok {
		return false
	}
	_, off := idx.weeklyOffs[d.Weekday()]
	return off
}

func (idx *ReferenceIndex) Employee(number string) (*attendance.Employee, bool) {
	e, ok := idx.employees[strings.ToUpper(strings.TrimSpace(number))]
	return e, ok
}
