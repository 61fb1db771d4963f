package attendance

import "time"

// Status is the single classification assigned to one employee-day.
type Status string

const (
	StatusClean     Status = "Clean"
	StatusAudit     Status = "Audit"
	StatusAbsent    Status = "Absent"
	StatusHoliday   Status = "Holiday"
	StatusWeeklyOff Status = "Weekly Off"
	StatusWorkedOff Status = "Worked Off"
	StatusIDError   Status = "ID Error"
)

var StatusValues = []string{
	string(StatusClean),
	string(StatusAudit),
	string(StatusAbsent),
	string(StatusHoliday),
	string(StatusWeeklyOff),
	string(StatusWorkedOff),
	string(StatusIDError),
}

const (
	ActiveStatusActive = "Active"

	DefaultShiftToken       = "GS"
	DefaultAllowedLateCount = 2
	NoDeviation             = "-"
)

// Employee is one row of the employee master.
type Employee struct {
	EmployeeNumber        string `json:"employee_number"`
	FullName              string `json:"full_name"`
	ActiveStatus          string `json:"active_status"`
	ShiftDeviationAllowed bool   `json:"shift_deviation_allowed"`
	JobTitle              string `json:"job_title,omitempty"`
	Department            string `json:"department,omitempty"`
	Location              string `json:"location,omitempty"`
	CostCenter            string `json:"cost_center,omitempty"`
	ReportingTo           string `json:"reporting_to,omitempty"`
	LegalEntity           string `json:"legal_entity,omitempty"`
}

// ShiftDefinition is a shift from the shift catalogue. StartTime and EndTime are "HH:MM".
type ShiftDefinition struct {
	ID               string `json:"id"`
	Label            string `json:"label"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	EarlyInThreshold int    `json:"early_in_threshold"`
	AllowedLateCount int    `json:"allowed_late_count"`
}

// LateCap returns the monthly waiver cap, falling back to DefaultAllowedLateCount.
func (s ShiftDefinition) LateCap() int {
	if s.AllowedLateCount <= 0 {
		return DefaultAllowedLateCount
	}
	return s.AllowedLateCount
}

type Holiday struct {
	Date  string `json:"date"` // DD-MMM-YYYY
	Label string `json:"label"`
}

// RawPunch is one imported time-clock row. InTime/OutTime hold "HH:MM" or a
// no-punch sentinel ("NA", "", "00:00").
type RawPunch struct {
	EmployeeNumber string `json:"employee_number"`
	Date           string `json:"date"`
	Shift          string `json:"shift"`
	InTime         string `json:"in_time"`
	OutTime        string `json:"out_time"`
}

// Reference bundles the master data a classification pass runs against.
type Reference struct {
	Employees  []Employee        `json:"employees"`
	Shifts     []ShiftDefinition `json:"shifts"`
	Holidays   []Holiday         `json:"holidays"`
	WeeklyOffs []int             `json:"weekly_offs"`
}

// ClassifiedRecord is the engine output for one RawPunch.
type ClassifiedRecord struct {
	RawPunch

	FullName    string `json:"full_name,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Department  string `json:"department,omitempty"`
	Location    string `json:"location,omitempty"`
	CostCenter  string `json:"cost_center,omitempty"`
	ReportingTo string `json:"reporting_to,omitempty"`
	LegalEntity string `json:"legal_entity,omitempty"`

	Status    Status `json:"status"`
	Deviation string `json:"deviation"`

	// Waiver is true when the record consumed an in-cap waiver occasion.
	Waiver bool `json:"waiver"`

	LateBy             string `json:"late_by,omitempty"`
	EarlyBy            string `json:"early_by,omitempty"`
	TotalHours         string `json:"total_hours"`
	EffectiveHours     string `json:"effective_hours"`
	OverTime           string `json:"over_time,omitempty"`
	ShortfallEffective string `json:"shortfall_effective,omitempty"`
	ShortfallGross     string `json:"shortfall_gross,omitempty"`
}

// StoredRecord is a ClassifiedRecord persisted by a recalculation run.
type StoredRecord struct {
	ClassifiedRecord
	ID        string
	CompanyID string
	RunID     string
	MonthKey  string
	WorkDate  *time.Time
	CreatedAt time.Time
}
