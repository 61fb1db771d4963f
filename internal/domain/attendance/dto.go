package attendance

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CLASSIFY DTOs
// ========================================

type ClassifyRequest struct {
	Reference
	Punches []RawPunch `json:"punches"`

	// WaiverSeed carries occasion counts from a previous run, keyed by WaiverMonthKey
	WaiverSeed map[string]int `json:"waiver_seed,omitempty"`
}

func (r *ClassifyRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, s := range r.Shifts {
		if validator.IsEmpty(s.ID) && validator.IsEmpty(s.Label) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("shifts[%d]", i),
				Message: "shift needs an id or a label",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Warnings lists reference entries the classifier will degrade rather than reject.
// Malformed shift times count as 00:00 and unknown weekdays never match.
func (r *ClassifyRequest) Warnings() []string {
	var warnings []string

	for i, s := range r.Shifts {
		if !validator.IsValidClockTime(s.StartTime) || !validator.IsValidClockTime(s.EndTime) {
			warnings = append(warnings, fmt.Sprintf("shifts[%d]: start_time and end_time should be in HH:MM format, treated as 00:00", i))
		}
	}

	for _, d := range r.WeeklyOffs {
		if !validator.IsValidWeekday(d) {
			warnings = append(warnings, fmt.Sprintf("weekly_offs: %d is not a weekday between 0 (Sunday) and 6 (Saturday), ignored", d))
		}
	}

	return warnings
}

type ClassifyResponse struct {
	TotalCount int                `json:"total_count"`
	Tally      map[Status]int     `json:"tally"`
	Records    []ClassifiedRecord `json:"records"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// ========================================
// IMPORT DTOs
// ========================================

type ImportPunchesRequest struct {
	File     io.Reader `json:"-"`
	Filename string    `json:"-"`
	Size     int64     `json:"-"`
}

func (r *ImportPunchesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.File == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "punch spreadsheet is required",
		})
	} else {
		ext := ""
		if i := strings.LastIndex(r.Filename, "."); i >= 0 {
			ext = strings.ToLower(r.Filename[i:])
		}
		if ext != ".xlsx" && ext != ".xlsm" {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "invalid file type: only xlsx, xlsm allowed",
			})
		} else if r.Size > 20<<20 { // 20MB
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "punch spreadsheet size must not exceed 20MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ImportPunchesResponse struct {
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
	Months   []string              `json:"months"`
	Errors   []ImportRowValidation `json:"errors,omitempty"`
}

type ImportRowValidation struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ========================================
// RECALCULATE DTOs
// ========================================

type RecalculateRequest struct {
	Month string `json:"month"` // MMM-YYYY

	// CompanyID is set by background jobs; HTTP callers are scoped by their token
	CompanyID string `json:"-"`
}

func (r *RecalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if _, ok := validator.IsValidMonthKey(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in MMM-YYYY format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.Month = strings.ToUpper(strings.TrimSpace(r.Month))
	return nil
}

type RecalculateResponse struct {
	RunID      string         `json:"run_id"`
	Month      string         `json:"month"`
	TotalCount int            `json:"total_count"`
	Tally      map[Status]int `json:"tally"`
	DurationMS int64          `json:"duration_ms"`
}

// ========================================
// LIST DTOs
// ========================================

type ListFilter struct {
	Month          *string `json:"month,omitempty"` // MMM-YYYY
	EmployeeNumber *string `json:"employee_number,omitempty"`
	Status         *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(StatusValues, ", "),
		})
	}

	if f.Month != nil && *f.Month != "" {
		if _, ok := validator.IsValidMonthKey(*f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in MMM-YYYY format",
			})
		} else {
			upper := strings.ToUpper(strings.TrimSpace(*f.Month))
			f.Month = &upper
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Records    []ClassifiedRecord `json:"records"`
}

// ========================================
// SUMMARY / EXPORT DTOs
// ========================================

type SummaryRequest struct {
	Month string `json:"month"`
}

func (r *SummaryRequest) Validate() error {
	rr := RecalculateRequest{Month: r.Month}
	if err := rr.Validate(); err != nil {
		return err
	}
	r.Month = rr.Month
	return nil
}

type EmployeeSummary struct {
	EmployeeNumber  string          `json:"employee_number"`
	FullName        string          `json:"full_name"`
	Department      string          `json:"department,omitempty"`
	Days            int             `json:"days"`
	Tally           map[Status]int  `json:"tally"`
	WaiversUsed     int             `json:"waivers_used"`
	GrossHours      decimal.Decimal `json:"gross_hours"`
	EffectiveHours  decimal.Decimal `json:"effective_hours"`
	OverTimeHours   decimal.Decimal `json:"over_time_hours"`
	LateHours       decimal.Decimal `json:"late_hours"`
	ShortfallHours  decimal.Decimal `json:"shortfall_hours"`
	AverageHoursDay decimal.Decimal `json:"average_hours_per_worked_day"`
}

type SummaryResponse struct {
	Month     string            `json:"month"`
	Employees []EmployeeSummary `json:"employees"`
}

type ExportRequest struct {
	Month string `json:"month"`
}

func (r *ExportRequest) Validate() error {
	rr := RecalculateRequest{Month: r.Month}
	if err := rr.Validate(); err != nil {
		return err
	}
	r.Month = rr.Month
	return nil
}

// ========================================
// WEEKLY OFF DTOs
// ========================================

type UpdateWeeklyOffsRequest struct {
	Weekdays []int `json:"weekdays"` // 0 = Sunday ... 6 = Saturday
}

func (r *UpdateWeeklyOffsRequest) Validate() error {
	var errs validator.ValidationErrors

	seen := make(map[int]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		if !validator.IsValidWeekday(d) {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must be between 0 (Sunday) and 6 (Saturday)",
			})
			break
		}
		if seen[d] {
			errs = append(errs, validator.ValidationError{
				Field:   "weekdays",
				Message: "weekdays must not repeat",
			})
			break
		}
		seen[d] = true
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WeeklyOffsResponse struct {
	Weekdays []int `json:"weekdays"`
}
