package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
)

const RecalculateCurrentMonthJob = "recalculate_current_month"

// RecalculationJobs keeps stored classifications in step with newly imported punches.
type RecalculationJobs struct {
	punchRepo         attendance.PunchRepository
	attendanceService attendance.AttendanceService
	now               func() time.Time
}

func NewRecalculationJobs(punchRepo attendance.PunchRepository, attendanceService attendance.AttendanceService) *RecalculationJobs {
	return &RecalculationJobs{
		punchRepo:         punchRepo,
		attendanceService: attendanceService,
		now:               time.Now,
	}
}

func (j *RecalculationJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(RecalculateCurrentMonthJob, interval, j.RecalculateCurrentMonth)
}

// RecalculateCurrentMonth reclassifies the current month for every company with punches in it.
// One failing company does not stop the others.
func (j *RecalculationJobs) RecalculateCurrentMonth(ctx context.Context) error {
	month := strings.ToUpper(j.now().UTC().Format("Jan-2006"))

	companyIDs, err := j.punchRepo.ListCompaniesWithPunches(ctx, month)
	if err != nil {
		return fmt.Errorf("failed to get companies with punches: %w", err)
	}

	if len(companyIDs) == 0 {
		slog.Debug("Cron: No punches for current month", "month", month)
		return nil
	}

	var errs []error
	recalculated := 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := j.attendanceService.Recalculate(ctx, attendance.RecalculateRequest{
			Month:     month,
			CompanyID: companyID,
		})
		if err != nil {
			slog.Error("Cron: Failed to recalculate attendance", "company_id", companyID, "month", month, "error", err)
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		recalculated++
		slog.Debug("Cron: Attendance recalculated", "company_id", companyID, "run_id", result.RunID, "records", result.TotalCount)
	}

	slog.Info("Cron: Recalculate current month completed", "month", month, "companies", recalculated, "failed", len(errs))
	return errors.Join(errs...)
}
