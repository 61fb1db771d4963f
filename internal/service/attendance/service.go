package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/spreadsheet"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	employeeRepo   attendance.EmployeeRepository
	shiftRepo      attendance.ShiftRepository
	holidayRepo    attendance.HolidayRepository
	weeklyOffRepo  attendance.WeeklyOffRepository
	punchRepo      attendance.PunchRepository
	classifiedRepo attendance.ClassifiedRepository
	classifier     *Classifier
}

func NewAttendanceService(
	employeeRepo attendance.EmployeeRepository,
	shiftRepo attendance.ShiftRepository,
	holidayRepo attendance.HolidayRepository,
	weeklyOffRepo attendance.WeeklyOffRepository,
	punchRepo attendance.PunchRepository,
	classifiedRepo attendance.ClassifiedRepository,
	classifier *Classifier,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		holidayRepo:    holidayRepo,
		weeklyOffRepo:  weeklyOffRepo,
		punchRepo:      punchRepo,
		classifiedRepo: classifiedRepo,
		classifier:     classifier,
	}
}

// Classify implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Classify(ctx context.Context, req attendance.ClassifyRequest) (attendance.ClassifyResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ClassifyResponse{}, err
	}

	records := s.classifier.Run(req.Reference, req.Punches, NewWaiverCounter(req.WaiverSeed))

	return attendance.ClassifyResponse{
		TotalCount: len(records),
		Tally:      Tally(records),
		Records:    records,
		Warnings:   req.Warnings(),
	}, nil
}

// ImportPunches implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ImportPunches(ctx context.Context, req attendance.ImportPunchesRequest) (attendance.ImportPunchesResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportPunchesResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.ImportPunchesResponse{}, err
	}

	rows, err := spreadsheet.ReadRows(req.File)
	if err != nil {
		return attendance.ImportPunchesResponse{}, fmt.Errorf("failed to read punch spreadsheet: %w", err)
	}

	parsed, err := parsePunchRows(rows)
	if err != nil {
		return attendance.ImportPunchesResponse{}, err
	}

	resp := attendance.ImportPunchesResponse{
		Skipped: len(parsed.errors),
		Months:  parsed.months(),
		Errors:  parsed.errors,
	}
	if len(parsed.punches) == 0 {
		return resp, nil
	}

	imported, err := s.punchRepo.BulkUpsert(ctx, companyID, parsed.punches)
	if err != nil {
		return attendance.ImportPunchesResponse{}, fmt.Errorf("failed to store punches: %w", err)
	}
	resp.Imported = imported

	slog.Info("Punches imported",
		"company_id", companyID,
		"file", req.Filename,
		"imported", imported,
		"skipped", resp.Skipped,
	)

	return resp, nil
}

// Recalculate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Recalculate(ctx context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecalculateResponse{}, err
	}

	companyID := req.CompanyID
	if companyID == "" {
		var err error
		companyID, err = companyIDFromContext(ctx)
		if err != nil {
			return attendance.RecalculateResponse{}, err
		}
	}

	start := time.Now()

	punches, err := s.punchRepo.ListByMonth(ctx, companyID, req.Month)
	if err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to load punches: %w", err)
	}
	if len(punches) == 0 {
		return attendance.RecalculateResponse{}, attendance.ErrNoPunchesForMonth
	}

	ref, err := s.loadReference(ctx, companyID)
	if err != nil {
		return attendance.RecalculateResponse{}, err
	}

	records := s.classifier.Classify(ref, punches)

	runID := uuid.New().String()
	if err := s.classifiedRepo.ReplaceMonth(ctx, companyID, req.Month, runID, records); err != nil {
		return attendance.RecalculateResponse{}, fmt.Errorf("failed to store classified records: %w", err)
	}

	duration := time.Since(start)
	tally := Tally(records)

	slog.Info("Attendance recalculated",
		"company_id", companyID,
		"month", req.Month,
		"run_id", runID,
		"records", len(records),
		"duration", duration,
	)

	return attendance.RecalculateResponse{
		RunID:      runID,
		Month:      req.Month,
		TotalCount: len(records),
		Tally:      tally,
		DurationMS: duration.Milliseconds(),
	}, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	stored, total, err := s.classifiedRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list classified records: %w", err)
	}

	records := make([]attendance.ClassifiedRecord, 0, len(stored))
	for _, rec := range stored {
		records = append(records, rec.ClassifiedRecord)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Records:    records,
	}, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	stored, err := s.classifiedRepo.ListByMonth(ctx, companyID, req.Month)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to load classified month: %w", err)
	}
	if len(stored) == 0 {
		return attendance.SummaryResponse{}, attendance.ErrNoClassifiedRecords
	}

	return attendance.SummaryResponse{
		Month:     req.Month,
		Employees: summarize(stored),
	}, nil
}

// Export implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Export(ctx context.Context, req attendance.ExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return err
	}

	stored, err := s.classifiedRepo.ListByMonth(ctx, companyID, req.Month)
	if err != nil {
		return fmt.Errorf("failed to load classified month: %w", err)
	}
	if len(stored) == 0 {
		return attendance.ErrNoClassifiedRecords
	}

	rows := make([][]string, 0, len(stored))
	for _, rec := range stored {
		rows = append(rows, exportRow(rec.ClassifiedRecord))
	}

	return spreadsheet.WriteSheet(w, req.Month, exportHeader, rows)
}

// UpdateWeeklyOffs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateWeeklyOffs(ctx context.Context, req attendance.UpdateWeeklyOffsRequest) (attendance.WeeklyOffsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.WeeklyOffsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.WeeklyOffsResponse{}, err
	}

	weekdays := append([]int(nil), req.Weekdays...)
	sort.Ints(weekdays)

	if err := s.weeklyOffRepo.Replace(ctx, companyID, weekdays); err != nil {
		return attendance.WeeklyOffsResponse{}, fmt.Errorf("failed to update weekly offs: %w", err)
	}

	return attendance.WeeklyOffsResponse{Weekdays: weekdays}, nil
}

func (s *AttendanceServiceImpl) loadReference(ctx context.Context, companyID string) (attendance.Reference, error) {
	employees, err := s.employeeRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return attendance.Reference{}, fmt.Errorf("failed to load employees: %w", err)
	}

	shifts, err := s.shiftRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return attendance.Reference{}, fmt.Errorf("failed to load shifts: %w", err)
	}

	holidays, err := s.holidayRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return attendance.Reference{}, fmt.Errorf("failed to load holidays: %w", err)
	}

	weeklyOffs, err := s.weeklyOffRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return attendance.Reference{}, fmt.Errorf("failed to load weekly offs: %w", err)
	}

	return attendance.Reference{
		Employees:  employees,
		Shifts:     shifts,
		Holidays:   holidays,
		WeeklyOffs: weeklyOffs,
	}, nil
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", attendance.ErrCompanyIDRequired
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", attendance.ErrCompanyIDRequired
	}
	return companyID, nil
}
