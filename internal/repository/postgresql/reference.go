package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

// ListByCompany implements attendance.EmployeeRepository.
func (r *employeeRepository) ListByCompany(ctx context.Context, companyID string) ([]attendance.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_number, full_name, active_status, shift_deviation_allowed,
			   job_title, department, location, cost_center, reporting_to, legal_entity
		FROM attendance_employees
		WHERE company_id = $1
		ORDER BY employee_number
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.Employee
	for rows.Next() {
		var e attendance.Employee
		if err := rows.Scan(
			&e.EmployeeNumber, &e.FullName, &e.ActiveStatus, &e.ShiftDeviationAllowed,
			&e.JobTitle, &e.Department, &e.Location, &e.CostCenter, &e.ReportingTo, &e.LegalEntity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func NewEmployeeRepository(db *database.DB) attendance.EmployeeRepository {
	return &employeeRepository{db: db}
}

type shiftRepository struct {
	db *database.DB
}

// ListByCompany implements attendance.ShiftRepository.
func (r *shiftRepository) ListByCompany(ctx context.Context, companyID string) ([]attendance.ShiftDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, label, start_time, end_time, early_in_threshold, allowed_late_count
		FROM attendance_shifts
		WHERE company_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	shifts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (attendance.ShiftDefinition, error) {
		var s attendance.ShiftDefinition
		err := row.Scan(&s.ID, &s.Label, &s.StartTime, &s.EndTime, &s.EarlyInThreshold, &s.AllowedLateCount)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan shifts: %w", err)
	}

	return shifts, nil
}

func NewShiftRepository(db *database.DB) attendance.ShiftRepository {
	return &shiftRepository{db: db}
}

type holidayRepository struct {
	db *database.DB
}

// ListByCompany implements attendance.HolidayRepository.
func (r *holidayRepository) ListByCompany(ctx context.Context, companyID string) ([]attendance.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT date, label FROM attendance_holidays WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	holidays, err := pgx.CollectRows(rows, pgx.RowToStructByPos[attendance.Holiday])
	if err != nil {
		return nil, fmt.Errorf("failed to scan holidays: %w", err)
	}

	return holidays, nil
}

func NewHolidayRepository(db *database.DB) attendance.HolidayRepository {
	return &holidayRepository{db: db}
}

type weeklyOffRepository struct {
	db *database.DB
}

// GetByCompany implements attendance.WeeklyOffRepository.
func (r *weeklyOffRepository) GetByCompany(ctx context.Context, companyID string) ([]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT weekday FROM attendance_weekly_offs WHERE company_id = $1 ORDER BY weekday`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly offs: %w", err)
	}

	weekdays, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan weekly offs: %w", err)
	}

	return weekdays, nil
}

// Replace implements attendance.WeeklyOffRepository.
func (r *weeklyOffRepository) Replace(ctx context.Context, companyID string, weekdays []int) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance_weekly_offs WHERE company_id = $1`, companyID); err != nil {
			return fmt.Errorf("failed to clear weekly offs: %w", err)
		}
		for _, d := range weekdays {
			if _, err := tx.Exec(ctx, `
				INSERT INTO attendance_weekly_offs (company_id, weekday) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, companyID, d); err != nil {
				return fmt.Errorf("failed to insert weekly off %d: %w", d, err)
			}
		}
		return nil
	})
}

func NewWeeklyOffRepository(db *database.DB) attendance.WeeklyOffRepository {
	return &weeklyOffRepository{db: db}
}
