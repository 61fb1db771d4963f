package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-classifier/internal/pkg/punchtime"
	"github.com/jackc/pgx/v5"
)

type punchRepository struct {
	db *database.DB
}

// BulkUpsert implements attendance.PunchRepository.
func (r *punchRepository) BulkUpsert(ctx context.Context, companyID string, punches []attendance.RawPunch) (int, error) {
	if len(punches) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO attendance_punches (
			company_id, employee_number, date, work_date, month_key, shift, in_time, out_time, imported_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (company_id, employee_number, date) DO UPDATE SET
			work_date = EXCLUDED.work_date,
			month_key = EXCLUDED.month_key,
			shift = EXCLUDED.shift,
			in_time = EXCLUDED.in_time,
			out_time = EXCLUDED.out_time,
			imported_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, p := range punches {
		batch.Queue(query,
			companyID,
			p.EmployeeNumber,
			p.Date,
			workDate(p.Date),
			punchtime.MonthYear(p.Date),
			p.Shift,
			p.InTime,
			p.OutTime,
		)
	}

	affected := 0
	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for range punches {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return fmt.Errorf("failed to upsert punch: %w", err)
			}
			affected += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// ListByMonth implements attendance.PunchRepository.
func (r *punchRepository) ListByMonth(ctx context.Context, companyID string, monthKey string) ([]attendance.RawPunch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_number, date, shift, in_time, out_time
		FROM attendance_punches
		WHERE company_id = $1
		  AND month_key = $2
		ORDER BY work_date NULLS FIRST, employee_number
	`

	rows, err := q.Query(ctx, query, companyID, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}

	punches, err := pgx.CollectRows(rows, pgx.RowToStructByPos[attendance.RawPunch])
	if err != nil {
		return nil, fmt.Errorf("failed to scan punches: %w", err)
	}

	return punches, nil
}

// ListCompaniesWithPunches implements attendance.PunchRepository.
func (r *punchRepository) ListCompaniesWithPunches(ctx context.Context, monthKey string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT company_id FROM attendance_punches
		WHERE month_key = $1
		ORDER BY company_id
	`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}

	companyIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan companies: %w", err)
	}

	return companyIDs, nil
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

// workDate returns the parsed date for the DATE column, or nil when it does not parse.
func workDate(raw string) *time.Time {
	t, ok := punchtime.ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}
