package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

var classifiedColumns = []string{
	"company_id", "run_id", "month_key", "seq",
	"employee_number", "date", "work_date", "shift", "in_time", "out_time",
	"full_name", "job_title", "department", "location", "cost_center", "reporting_to", "legal_entity",
	"status", "deviation", "waiver",
	"late_by", "early_by", "total_hours", "effective_hours", "over_time",
	"shortfall_effective", "shortfall_gross",
}

const classifiedSelect = `
	SELECT id, company_id, run_id, month_key, work_date, created_at,
		   employee_number, date, shift, in_time, out_time,
		   full_name, job_title, department, location, cost_center, reporting_to, legal_entity,
		   status, deviation, waiver,
		   late_by, early_by, total_hours, effective_hours, over_time,
		   shortfall_effective, shortfall_gross
	FROM attendance_classified
`

type classifiedRepository struct {
	db *database.DB
}

// ReplaceMonth implements attendance.ClassifiedRepository.
func (r *classifiedRepository) ReplaceMonth(ctx context.Context, companyID string, monthKey string, runID string, records []attendance.ClassifiedRecord) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		// Serialize concurrent replacements of the same company month until commit
		if _, err := tx.Exec(ctx, `
			SELECT pg_advisory_xact_lock(hashtext($1::text || '/' || $2::text))
		`, companyID, monthKey); err != nil {
			return fmt.Errorf("failed to lock classified month: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM attendance_classified WHERE company_id = $1 AND month_key = $2
		`, companyID, monthKey); err != nil {
			return fmt.Errorf("failed to clear classified month: %w", err)
		}

		rows := make([][]any, 0, len(records))
		for i, rec := range records {
			rows = append(rows, []any{
				companyID, runID, monthKey, i,
				rec.EmployeeNumber, rec.Date, workDate(rec.Date), rec.Shift, rec.InTime, rec.OutTime,
				rec.FullName, rec.JobTitle, rec.Department, rec.Location, rec.CostCenter, rec.ReportingTo, rec.LegalEntity,
				string(rec.Status), rec.Deviation, rec.Waiver,
				rec.LateBy, rec.EarlyBy, rec.TotalHours, rec.EffectiveHours, rec.OverTime,
				rec.ShortfallEffective, rec.ShortfallGross,
			})
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"attendance_classified"}, classifiedColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to insert classified records: %w", err)
		}
		return nil
	})
}

// List implements attendance.ClassifiedRepository.
func (r *classifiedRepository) List(ctx context.Context, filter attendance.ListFilter, companyID string) ([]attendance.StoredRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Month != nil && *filter.Month != "" {
		baseWhere += fmt.Sprintf(" AND month_key = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}

	if filter.EmployeeNumber != nil && *filter.EmployeeNumber != "" {
		baseWhere += fmt.Sprintf(" AND UPPER(employee_number) = UPPER($%d)", argIdx)
		args = append(args, *filter.EmployeeNumber)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_classified WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count classified records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := classifiedSelect + " WHERE " + baseWhere +
		fmt.Sprintf(" ORDER BY month_key, seq LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list classified records: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanStoredRecord)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan classified records: %w", err)
	}

	return records, total, nil
}

// ListByMonth implements attendance.ClassifiedRepository.
func (r *classifiedRepository) ListByMonth(ctx context.Context, companyID string, monthKey string) ([]attendance.StoredRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, classifiedSelect+" WHERE company_id = $1 AND month_key = $2 ORDER BY seq", companyID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list classified month: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanStoredRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to scan classified month: %w", err)
	}

	return records, nil
}

func scanStoredRecord(row pgx.CollectableRow) (attendance.StoredRecord, error) {
	var s attendance.StoredRecord
	var status string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.RunID, &s.MonthKey, &s.WorkDate, &s.CreatedAt,
		&s.EmployeeNumber, &s.Date, &s.Shift, &s.InTime, &s.OutTime,
		&s.FullName, &s.JobTitle, &s.Department, &s.Location, &s.CostCenter, &s.ReportingTo, &s.LegalEntity,
		&status, &s.Deviation, &s.Waiver,
		&s.LateBy, &s.EarlyBy, &s.TotalHours, &s.EffectiveHours, &s.OverTime,
		&s.ShortfallEffective, &s.ShortfallGross,
	)
	s.Status = attendance.Status(status)
	return s, err
}

func NewClassifiedRepository(db *database.DB) attendance.ClassifiedRepository {
	return &classifiedRepository{db: db}
}
